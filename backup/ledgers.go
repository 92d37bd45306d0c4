package backup

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/marcovr1980/ebh-backup/eboekhouden"
)

// BackupLedgers dumps the chart of accounts to ledgers/ledgers.json.
func BackupLedgers(ctx context.Context, client *eboekhouden.Client, outDir string, dryRun bool, log *zap.SugaredLogger) error {
	log.Infow("backing up ledgers")

	ledgers, err := client.ListLedgers(ctx, eboekhouden.LedgerFilter{})
	if err != nil {
		return errors.Wrap(err, "fetch ledgers")
	}

	log.Infow("fetched ledgers", "count", len(ledgers))
	return writeJSON(outDir, "ledgers", "ledgers.json", ledgers, dryRun, log)
}

// BackupBalances dumps current ledger balances to balances/balances.json.
// Balances are a point-in-time snapshot, so the dump is always full.
func BackupBalances(ctx context.Context, client *eboekhouden.Client, outDir string, dryRun bool, log *zap.SugaredLogger) error {
	log.Infow("backing up balances")

	balances, err := client.ListBalances(ctx, eboekhouden.BalanceFilter{})
	if err != nil {
		return errors.Wrap(err, "fetch balances")
	}

	log.Infow("fetched balances", "count", len(balances))
	return writeJSON(outDir, "balances", "balances.json", balances, dryRun, log)
}
