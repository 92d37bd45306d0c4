package eboekhouden

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsList(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []any
	}{
		{
			name: "absent field yields empty sequence",
			in:   nil,
			want: nil,
		},
		{
			name: "slice passes through in order",
			in:   []any{"a", "b", "c"},
			want: []any{"a", "b", "c"},
		},
		{
			name: "bare scalar is wrapped",
			in:   "only",
			want: []any{"only"},
		},
		{
			name: "bare record is wrapped",
			in:   map[string]any{"Code": "REL001"},
			want: []any{map[string]any{"Code": "REL001"}},
		},
		{
			name: "empty slice stays empty",
			in:   []any{},
			want: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, asList(tt.in))
		})
	}
}

func TestAsListScalarEqualsSingleton(t *testing.T) {
	// a bare single item normalizes to the same sequence as a one-element
	// collection of that item
	item := map[string]any{"ID": "7"}
	assert.Equal(t, asList([]any{item}), asList(item))
}

func TestAsRecord(t *testing.T) {
	rec := asRecord(map[string]any{"Code": "X"})
	assert.Equal(t, "X", rec.str("Code"))

	// anything that is not a bundle becomes an empty record
	assert.Empty(t, asRecord(nil))
	assert.Empty(t, asRecord("scalar"))
	assert.Empty(t, asRecord([]any{"a"}))
}

func TestRecordDefaults(t *testing.T) {
	rec := record{}
	assert.Equal(t, "", rec.str("Bedrijf"))
	assert.Equal(t, 0, rec.integer("ID"))
	assert.True(t, rec.decimal("Saldo").IsZero())
	assert.True(t, rec.date("AddDatum").IsZero())
}

func TestRecordAccessors(t *testing.T) {
	rec := record{
		"Bedrijf":  "Acme BV",
		"ID":       "42",
		"Saldo":    "-123.45",
		"AddDatum": "2024-03-01T00:00:00",
		"Datum":    "2024-03-01",
		"Nested":   map[string]any{"x": "y"},
	}

	assert.Equal(t, "Acme BV", rec.str("Bedrijf"))
	assert.Equal(t, 42, rec.integer("ID"))

	want, err := decimal.NewFromString("-123.45")
	require.NoError(t, err)
	assert.True(t, want.Equal(rec.decimal("Saldo")))

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), rec.date("AddDatum"))
	// bare dates without a time part are accepted too
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), rec.date("Datum"))

	// unexpected shapes fall back to defaults
	assert.Equal(t, "", rec.str("Nested"))
	assert.Equal(t, 0, rec.integer("Bedrijf"))
}
