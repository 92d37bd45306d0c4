package backup

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/marcovr1980/ebh-backup/eboekhouden"
)

// BackupRelations dumps all relations to relations/relations.json. The
// service has no changes-since filter for relations, so every run fetches
// and writes the full set.
func BackupRelations(ctx context.Context, client *eboekhouden.Client, outDir string, dryRun bool, log *zap.SugaredLogger) error {
	log.Infow("backing up relations")

	relations, err := client.ListRelations(ctx, eboekhouden.RelationFilter{})
	if err != nil {
		return errors.Wrap(err, "fetch relations")
	}

	log.Infow("fetched relations", "count", len(relations))
	return writeJSON(outDir, "relations", "relations.json", relations, dryRun, log)
}
