// Package eboekhouden is a client for the e-Boekhouden.nl session-based
// SOAP API. It opens an authenticated session on first use, issues typed
// operations through an injected Transport, normalizes the service's
// inconsistent response shapes and surfaces service-reported errors as
// typed failures.
//
// A Client holds mutable session state and is not safe for concurrent use
// without external synchronization. Operations are synchronous round trips;
// nothing is cached and nothing is retried.
package eboekhouden

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Remote operation names. These double as the envelope key prefix the
// service nests results and error signals under (<operation>Result).
const (
	opOpenSession            = "OpenSession"
	opCloseSession           = "CloseSession"
	opGetRelaties            = "GetRelaties"
	opGetGrootboekrekeningen = "GetGrootboekrekeningen"
	opGetFacturen            = "GetFacturen"
	opGetMutaties            = "GetMutaties"
	opGetSaldi               = "GetSaldi"
	opAddFactuur             = "AddFactuur"
	opAddRelatie             = "AddRelatie"
	opUpdateRelatie          = "UpdateRelatie"
)

// Client is the operation facade. One instance owns one logical session.
type Client struct {
	transport     Transport
	logger        *zap.SugaredLogger
	username      string
	securityCode1 string
	securityCode2 string

	sessionID string
	now       func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Defaults to a nop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient returns a client authenticating with the given username and
// security code pair. No session is opened until the first operation.
func NewClient(transport Transport, username, securityCode1, securityCode2 string, opts ...Option) *Client {
	c := &Client{
		transport:     transport,
		logger:        zap.NewNop().Sugar(),
		username:      username,
		securityCode1: securityCode1,
		securityCode2: securityCode2,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// invoke runs the shared operation protocol: ensure session, attach the
// session credentials to the bundle, call the transport and check the
// response for an embedded error signal before anyone reads it as data.
func (c *Client) invoke(ctx context.Context, operation string, args map[string]any) (map[string]any, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	bundle := map[string]any{
		"SessionID":     c.sessionID,
		"SecurityCode2": c.securityCode2,
	}
	for k, v := range args {
		bundle[k] = v
	}

	c.logger.Debugw("invoking remote operation", "operation", operation)
	resp, err := c.transport.Invoke(ctx, operation, bundle)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, operation), ErrTransport)
	}
	if err := checkError(operation, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListRelations fetches relations, optionally narrowed by keyword, code or
// id. Results come back in service order.
func (c *Client) ListRelations(ctx context.Context, filter RelationFilter) ([]Relation, error) {
	resp, err := c.invoke(ctx, opGetRelaties, map[string]any{
		"oFilter": map[string]any{
			"Trefwoord": filter.Keyword,
			"Code":      filter.Code,
			"ID":        filter.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	result := asRecord(resp[opGetRelaties+"Result"])
	raw := asList(asRecord(result["Relaties"])["cRelatie"])
	relations := make([]Relation, 0, len(raw))
	for _, item := range raw {
		relations = append(relations, relationFromWire(asRecord(item)))
	}
	return relations, nil
}

// ListLedgers fetches chart-of-accounts entries, optionally narrowed by id,
// code or category.
func (c *Client) ListLedgers(ctx context.Context, filter LedgerFilter) ([]Ledger, error) {
	resp, err := c.invoke(ctx, opGetGrootboekrekeningen, map[string]any{
		"oFilter": map[string]any{
			"ID":        filter.ID,
			"Code":      filter.Code,
			"Categorie": filter.Category,
		},
	})
	if err != nil {
		return nil, err
	}

	result := asRecord(resp[opGetGrootboekrekeningen+"Result"])
	raw := asList(asRecord(result["Rekeningen"])["cGrootboek"])
	ledgers := make([]Ledger, 0, len(raw))
	for _, item := range raw {
		ledgers = append(ledgers, ledgerFromWire(asRecord(item)))
	}
	return ledgers, nil
}

// ListInvoices fetches invoice header rows matching the filter. A response
// without an invoices container yields an empty slice, not an error.
func (c *Client) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]Invoice, error) {
	from, to := dateRange(filter.From, filter.To)
	resp, err := c.invoke(ctx, opGetFacturen, map[string]any{
		"oFilter": map[string]any{
			"Factuurnummer": filter.InvoiceNumber,
			"Relatiecode":   filter.RelationCode,
			"DatumVan":      from,
			"DatumTm":       to,
		},
	})
	if err != nil {
		return nil, err
	}

	result := asRecord(resp[opGetFacturen+"Result"])
	raw := asList(asRecord(result["Facturen"])["cFactuurList"])
	invoices := make([]Invoice, 0, len(raw))
	for _, item := range raw {
		invoices = append(invoices, invoiceFromWire(asRecord(item)))
	}
	return invoices, nil
}

// ListMutations fetches posted bookkeeping entries matching the filter. A
// response without a mutations container yields an empty slice.
func (c *Client) ListMutations(ctx context.Context, filter MutationFilter) ([]Mutation, error) {
	from, to := dateRange(filter.From, filter.To)
	resp, err := c.invoke(ctx, opGetMutaties, map[string]any{
		"oFilter": map[string]any{
			"MutatieNr": filter.Number,
			"DatumVan":  from,
			"DatumTm":   to,
		},
	})
	if err != nil {
		return nil, err
	}

	result := asRecord(resp[opGetMutaties+"Result"])
	raw := asList(asRecord(result["Mutaties"])["cMutatieList"])
	mutations := make([]Mutation, 0, len(raw))
	for _, item := range raw {
		mutations = append(mutations, mutationFromWire(asRecord(item)))
	}
	return mutations, nil
}

// ListBalances fetches ledger balances over the filtered period.
func (c *Client) ListBalances(ctx context.Context, filter BalanceFilter) ([]Saldo, error) {
	from, to := dateRange(filter.From, filter.To)
	resp, err := c.invoke(ctx, opGetSaldi, map[string]any{
		"oFilter": map[string]any{
			"Categorie":      filter.Category,
			"KostenPlaatsID": 0,
			"DatumVan":       from,
			"DatumTm":        to,
		},
	})
	if err != nil {
		return nil, err
	}

	result := asRecord(resp[opGetSaldi+"Result"])
	raw := asList(asRecord(result["Saldi"])["cSaldo"])
	saldi := make([]Saldo, 0, len(raw))
	for _, item := range raw {
		saldi = append(saldi, saldoFromWire(asRecord(item)))
	}
	return saldi, nil
}

// CreateInvoice submits an invoice. The service assigns the authoritative
// invoice number, which is written back to inv.Number and returned; nothing
// else on the invoice is touched. Not idempotent: resubmitting after an
// ambiguous failure may create a duplicate.
func (c *Client) CreateInvoice(ctx context.Context, inv *Invoice) (string, error) {
	resp, err := c.invoke(ctx, opAddFactuur, map[string]any{
		"oFact": invoiceArgs(*inv, c.now()),
	})
	if err != nil {
		return "", err
	}

	result := asRecord(resp[opAddFactuur+"Result"])
	number := result.str("Factuurnummer")
	if number == "" {
		return "", errors.Newf("%s: response carries no invoice number", opAddFactuur)
	}
	inv.Number = number
	c.logger.Infow("invoice created", "invoice_number", number, "relation_code", inv.RelationCode)
	return number, nil
}

// CreateRelation submits a new relation and returns it with the id the
// service assigned. Not idempotent.
func (c *Client) CreateRelation(ctx context.Context, rel Relation) (Relation, error) {
	resp, err := c.invoke(ctx, opAddRelatie, map[string]any{
		"oRel": relationArgs(rel, c.now()),
	})
	if err != nil {
		return Relation{}, err
	}

	result := asRecord(resp[opAddRelatie+"Result"])
	id := result.integer("Rel_ID")
	if id == 0 {
		return Relation{}, errors.Newf("%s: response carries no relation id", opAddRelatie)
	}
	rel.ID = id
	c.logger.Infow("relation created", "relation_id", id, "code", rel.Code)
	return rel, nil
}

// UpdateRelation submits the full desired state of an existing relation.
// The service does not echo changes back, so the input is returned as-is.
func (c *Client) UpdateRelation(ctx context.Context, rel Relation) (Relation, error) {
	_, err := c.invoke(ctx, opUpdateRelatie, map[string]any{
		"oRel": relationArgs(rel, c.now()),
	})
	if err != nil {
		return Relation{}, err
	}
	return rel, nil
}
