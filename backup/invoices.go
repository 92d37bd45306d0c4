package backup

import (
	"context"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/marcovr1980/ebh-backup/eboekhouden"
	"github.com/marcovr1980/ebh-backup/state"
)

// BackupInvoices exports invoices changed since the last run into
// invoices/invoices.json, merged by invoice number. The lower bound of the
// date filter is the state file's watermark; the upper bound stays open.
func BackupInvoices(ctx context.Context, client *eboekhouden.Client, stateManager *state.Manager, outDir string, dryRun bool, log *zap.SugaredLogger) error {
	log.Infow("backing up invoices")

	since, err := time.Parse(time.RFC3339, stateManager.GetLastExportInvoices())
	if err != nil {
		return errors.Wrap(err, "parse invoices watermark")
	}
	now := time.Now().UTC()

	invoices, err := client.ListInvoices(ctx, eboekhouden.InvoiceFilter{From: since})
	if err != nil {
		return errors.Wrap(err, "fetch invoices")
	}

	if len(invoices) == 0 {
		log.Infow("no invoice changes found, watermark not advanced")
		return nil
	}
	log.Infow("fetched invoices", "count", len(invoices), "since", since)

	var existing []eboekhouden.Invoice
	if err := readJSON(outDir, "invoices", "invoices.json", &existing); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "load existing invoices")
		}
		log.Infow("no existing invoices file, creating a new one")
	}

	merged := mergeInvoices(existing, invoices)
	if err := writeJSON(outDir, "invoices", "invoices.json", merged, dryRun, log); err != nil {
		return err
	}

	if !dryRun {
		stateManager.UpdateInvoices(now.Format(time.RFC3339))
		return stateManager.Save()
	}
	return nil
}

// mergeInvoices merges changed invoices into the existing set by invoice
// number, preserving existing order and appending new invoices at the end.
func mergeInvoices(existing, changes []eboekhouden.Invoice) []eboekhouden.Invoice {
	changeMap := make(map[string]eboekhouden.Invoice, len(changes))
	for _, inv := range changes {
		changeMap[inv.Number] = inv
	}

	applied := make(map[string]bool, len(changes))
	result := make([]eboekhouden.Invoice, 0, len(existing)+len(changes))
	for _, inv := range existing {
		if changed, ok := changeMap[inv.Number]; ok {
			result = append(result, changed)
			applied[inv.Number] = true
		} else {
			result = append(result, inv)
		}
	}

	for _, inv := range changes {
		if !applied[inv.Number] {
			result = append(result, inv)
		}
	}

	return result
}
