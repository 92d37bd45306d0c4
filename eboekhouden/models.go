package eboekhouden

import (
	"time"

	"github.com/shopspring/decimal"
)

// Relation is a business contact in the administration. ID 0 means the
// service has not assigned an id yet. Kind is the wire BP flag: "B" for a
// business, "P" for a private person; submissions default an empty Kind
// to "B".
type Relation struct {
	ID            int
	Kind          string
	Code          string
	Company       string
	ContactPerson string
	Address       string
	ZipCode       string
	City          string
	Country       string
	Phone         string
	Mobile        string
	Email         string
	Site          string
	VATNumber     string
	Notes         string
	AddedOn       time.Time
}

// Ledger is a chart-of-accounts entry (grootboekrekening).
type Ledger struct {
	ID          int
	Code        string
	Description string
	Category    string
	Group       string
}

// Invoice is a billing document. Number is empty until the service assigns
// one on submission. List operations return header rows only, so Lines is
// empty on fetched invoices.
type Invoice struct {
	Number       string
	RelationCode string
	Date         time.Time
	PaymentTerm  int
	Description  string
	TotalExclVAT decimal.Decimal
	TotalVAT     decimal.Decimal
	TotalInclVAT decimal.Decimal
	PDFURL       string
	Lines        []InvoiceLine
}

// InvoiceLine is one line of an invoice. Immutable value type.
type InvoiceLine struct {
	Quantity     decimal.Decimal
	Unit         string
	Code         string
	Description  string
	PricePerUnit decimal.Decimal
	VATCode      string
	LedgerCode   string
}

// Mutation is a posted bookkeeping entry. Read-only.
type Mutation struct {
	Number        int
	Kind          string
	Date          time.Time
	LedgerCode    string
	RelationCode  string
	InvoiceNumber string
	Description   string
	InExVAT       string
}

// Saldo is a ledger balance at the end of the requested period.
type Saldo struct {
	LedgerID int
	Category string
	Balance  decimal.Decimal
}

// The decode functions below are the field-name translation tables between
// the service's wire vocabulary and the domain model. The wire keys are a
// compatibility contract with the live service; do not rename them.

func relationFromWire(r record) Relation {
	return Relation{
		ID:            r.integer("ID"),
		Kind:          r.str("BP"),
		Code:          r.str("Code"),
		Company:       r.str("Bedrijf"),
		ContactPerson: r.str("Contactpersoon"),
		Address:       r.str("Adres"),
		ZipCode:       r.str("Postcode"),
		City:          r.str("Plaats"),
		Country:       r.str("Land"),
		Phone:         r.str("Telefoon"),
		Mobile:        r.str("GSM"),
		Email:         r.str("Email"),
		Site:          r.str("Site"),
		VATNumber:     r.str("BTWNummer"),
		Notes:         r.str("Notitie"),
		AddedOn:       r.date("AddDatum"),
	}
}

func ledgerFromWire(r record) Ledger {
	return Ledger{
		ID:          r.integer("ID"),
		Code:        r.str("Code"),
		Description: r.str("Omschrijving"),
		Category:    r.str("Categorie"),
		Group:       r.str("Groep"),
	}
}

func invoiceFromWire(r record) Invoice {
	return Invoice{
		Number:       r.str("Factuurnummer"),
		RelationCode: r.str("Relatiecode"),
		Date:         r.date("Datum"),
		PaymentTerm:  r.integer("Betalingstermijn"),
		Description:  r.str("Omschrijving"),
		TotalExclVAT: r.decimal("TotaalExclBTW"),
		TotalVAT:     r.decimal("TotaalBTW"),
		TotalInclVAT: r.decimal("TotaalInclBTW"),
		PDFURL:       r.str("URLPDFBestand"),
	}
}

func mutationFromWire(r record) Mutation {
	return Mutation{
		Number:        r.integer("MutatieNr"),
		Kind:          r.str("Soort"),
		Date:          r.date("Datum"),
		LedgerCode:    r.str("Rekening"),
		RelationCode:  r.str("RelatieCode"),
		InvoiceNumber: r.str("Factuurnummer"),
		Description:   r.str("Omschrijving"),
		InExVAT:       r.str("InExBTW"),
	}
}

func saldoFromWire(r record) Saldo {
	return Saldo{
		LedgerID: r.integer("ID"),
		Category: r.str("Categorie"),
		Balance:  r.decimal("Saldo"),
	}
}
