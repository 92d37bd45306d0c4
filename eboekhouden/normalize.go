package eboekhouden

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// asList coerces a raw collection field to a sequence. The service's wire
// format collapses a one-element collection into a bare object, so a
// non-slice value is wrapped in a single-element slice. nil (the container
// or item was absent) yields an empty sequence. Order is preserved.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// record is one wire record. Accessors translate the service's field
// vocabulary into domain values, defaulting to empty string / zero when a
// mapped field is absent or has an unexpected shape.
type record map[string]any

// asRecord coerces a raw value to a record; anything that is not a nested
// bundle becomes an empty record, so lookups on it hit the defaults.
func asRecord(v any) record {
	if m, ok := v.(map[string]any); ok {
		return record(m)
	}
	return record{}
}

func (r record) str(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

func (r record) integer(key string) int {
	n, err := strconv.Atoi(r.str(key))
	if err != nil {
		return 0
	}
	return n
}

func (r record) decimal(key string) decimal.Decimal {
	d, err := decimal.NewFromString(r.str(key))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (r record) date(key string) time.Time {
	s := r.str(key)
	if t, err := time.Parse(wireDateTime, s); err == nil {
		return t
	}
	// some responses carry bare dates without a time part
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
