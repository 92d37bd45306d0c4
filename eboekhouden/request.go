package eboekhouden

import "time"

// wireDateTime is the date-time layout the service round-trips.
const wireDateTime = "2006-01-02T15:04:05"

// Sentinel bounds for an unconstrained date range. The service requires
// both ends of the range on every filter, so "no filter" is expressed as
// the widest range it accepts.
var (
	rangeStart = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	rangeEnd   = time.Date(2050, time.December, 31, 23, 59, 59, 0, time.UTC)
)

// RelationFilter narrows ListRelations. Zero values mean no filter.
type RelationFilter struct {
	Keyword string
	Code    string
	ID      int
}

// LedgerFilter narrows ListLedgers. Zero values mean no filter.
type LedgerFilter struct {
	ID       int
	Code     string
	Category string
}

// InvoiceFilter narrows ListInvoices. Zero dates default to the sentinel
// unbounded range.
type InvoiceFilter struct {
	From          time.Time
	To            time.Time
	InvoiceNumber string
	RelationCode  string
}

// MutationFilter narrows ListMutations. Zero dates default to the sentinel
// unbounded range; Number 0 means all mutations.
type MutationFilter struct {
	From   time.Time
	To     time.Time
	Number int
}

// BalanceFilter narrows ListBalances. Zero dates default to the sentinel
// unbounded range.
type BalanceFilter struct {
	From     time.Time
	To       time.Time
	Category string
}

func wireDate(t time.Time) string {
	return t.Format(wireDateTime)
}

// dateRange serializes an optional [from, to] pair, substituting the
// sentinel bounds for unset ends.
func dateRange(from, to time.Time) (string, string) {
	if from.IsZero() {
		from = rangeStart
	}
	if to.IsZero() {
		to = rangeEnd
	}
	return wireDate(from), wireDate(to)
}

// wireRelationID normalizes a relation id for submission. Unset (0) maps to
// 0, and so does 1: the service hands out 1 as an "unassigned" sentinel in
// some responses. Upstream quirk, kept for wire compatibility.
func wireRelationID(id int) int {
	if id <= 1 {
		return 0
	}
	return id
}

// relationArgs builds the oRel bundle for AddRelatie/UpdateRelatie. Every
// optional textual field is transmitted as an empty string, never omitted.
func relationArgs(rel Relation, now time.Time) map[string]any {
	added := rel.AddedOn
	if added.IsZero() {
		added = now
	}
	kind := rel.Kind
	if kind == "" {
		kind = "B"
	}
	return map[string]any{
		"ID":             wireRelationID(rel.ID),
		"AddDatum":       wireDate(added),
		"Code":           rel.Code,
		"Bedrijf":        rel.Company,
		"Contactpersoon": rel.ContactPerson,
		"Geslacht":       "",
		"Adres":          rel.Address,
		"Postcode":       rel.ZipCode,
		"Plaats":         rel.City,
		"Land":           rel.Country,
		"Telefoon":       rel.Phone,
		"GSM":            rel.Mobile,
		"Email":          rel.Email,
		"Site":           rel.Site,
		"BTWNummer":      rel.VATNumber,
		"Notitie":        rel.Notes,
		"BP":             kind,
	}
}

// invoiceArgs builds the oFact bundle for AddFactuur. The invoice date is
// always stamped with the current time; the service treats it as the issue
// date and a caller-supplied date is not honored. Cost centers are not
// exposed, every line pins KostenplaatsID 0.
func invoiceArgs(inv Invoice, now time.Time) map[string]any {
	lines := make([]any, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		lines = append(lines, map[string]any{
			"Aantal":            l.Quantity,
			"Eenheid":           l.Unit,
			"Code":              l.Code,
			"Omschrijving":      l.Description,
			"PrijsPerEenheid":   l.PricePerUnit,
			"BTWCode":           l.VATCode,
			"TegenrekeningCode": l.LedgerCode,
			"KostenplaatsID":    0,
		})
	}
	return map[string]any{
		"Factuurnummer":                       inv.Number,
		"Relatiecode":                         inv.RelationCode,
		"Datum":                               wireDate(now),
		"Betalingstermijn":                    inv.PaymentTerm,
		"Omschrijving":                        inv.Description,
		"Factuursjabloon":                     "",
		"PerEmailVerzenden":                   0,
		"EmailOnderwerp":                      "",
		"EmailBericht":                        "",
		"EmailVanAdres":                       "",
		"EmailVanNaam":                        "",
		"AutomatischeIncasso":                 0,
		"IncassoIBAN":                         "",
		"IncassoMachtigingSoort":              "",
		"IncassoMachtigingID":                 "",
		"IncassoMachtigingDatumOndertekening": "",
		"IncassoMachtigingFirst":              0,
		"IncassoRekeningNummer":               "",
		"IncassoTnv":                          "",
		"IncassoPlaats":                       "",
		"IncassoOmschrijvingRegel1":           "",
		"Regels": map[string]any{
			"cFactuurRegel": lines,
		},
	}
}
