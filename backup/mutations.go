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

// BackupMutations exports mutations posted since the last run into
// mutations/mutations.json, merged by mutation number.
func BackupMutations(ctx context.Context, client *eboekhouden.Client, stateManager *state.Manager, outDir string, dryRun bool, log *zap.SugaredLogger) error {
	log.Infow("backing up mutations")

	since, err := time.Parse(time.RFC3339, stateManager.GetLastExportMutations())
	if err != nil {
		return errors.Wrap(err, "parse mutations watermark")
	}
	now := time.Now().UTC()

	mutations, err := client.ListMutations(ctx, eboekhouden.MutationFilter{From: since})
	if err != nil {
		return errors.Wrap(err, "fetch mutations")
	}

	if len(mutations) == 0 {
		log.Infow("no mutation changes found, watermark not advanced")
		return nil
	}
	log.Infow("fetched mutations", "count", len(mutations), "since", since)

	var existing []eboekhouden.Mutation
	if err := readJSON(outDir, "mutations", "mutations.json", &existing); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(err, "load existing mutations")
		}
		log.Infow("no existing mutations file, creating a new one")
	}

	merged := mergeMutations(existing, mutations)
	if err := writeJSON(outDir, "mutations", "mutations.json", merged, dryRun, log); err != nil {
		return err
	}

	if !dryRun {
		stateManager.UpdateMutations(now.Format(time.RFC3339))
		return stateManager.Save()
	}
	return nil
}

// mergeMutations merges changed mutations into the existing set by mutation
// number, preserving existing order and appending new ones at the end.
func mergeMutations(existing, changes []eboekhouden.Mutation) []eboekhouden.Mutation {
	changeMap := make(map[int]eboekhouden.Mutation, len(changes))
	for _, mut := range changes {
		changeMap[mut.Number] = mut
	}

	applied := make(map[int]bool, len(changes))
	result := make([]eboekhouden.Mutation, 0, len(existing)+len(changes))
	for _, mut := range existing {
		if changed, ok := changeMap[mut.Number]; ok {
			result = append(result, changed)
			applied[mut.Number] = true
		} else {
			result = append(result, mut)
		}
	}

	for _, mut := range changes {
		if !applied[mut.Number] {
			result = append(result, mut)
		}
	}

	return result
}
