// Package backup exports administration data fetched through the
// eboekhouden client to JSON files. Relations, ledgers and balances are
// full dumps; invoices and mutations are exported incrementally using the
// state file's last-export watermark as the lower bound of the date filter.
package backup

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// writeJSON writes v indented to outDir/subdir/name, creating the
// directory. In dry-run mode it only logs what it would write.
func writeJSON(outDir, subdir, name string, v any, dryRun bool, log *zap.SugaredLogger) error {
	filename := filepath.Join(outDir, subdir, name)
	if dryRun {
		log.Infow("[dry run] would write file", "path", filename)
		return nil
	}

	if err := os.MkdirAll(filepath.Join(outDir, subdir), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "marshal %s", name)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return err
	}
	log.Infow("wrote file", "path", filename)
	return nil
}

// readJSON loads outDir/subdir/name into v. Missing files are reported via
// os.IsNotExist on the returned error.
func readJSON(outDir, subdir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(outDir, subdir, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
