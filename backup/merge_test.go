package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcovr1980/ebh-backup/eboekhouden"
)

func TestMergeInvoices(t *testing.T) {
	existing := []eboekhouden.Invoice{
		{Number: "20240001", Description: "old"},
		{Number: "20240002", Description: "kept"},
	}
	changes := []eboekhouden.Invoice{
		{Number: "20240001", Description: "updated"},
		{Number: "20240003", Description: "new"},
	}

	merged := mergeInvoices(existing, changes)

	assert.Equal(t, []eboekhouden.Invoice{
		{Number: "20240001", Description: "updated"},
		{Number: "20240002", Description: "kept"},
		{Number: "20240003", Description: "new"},
	}, merged, "existing order is preserved, new invoices append")
}

func TestMergeInvoicesEmptyExisting(t *testing.T) {
	changes := []eboekhouden.Invoice{{Number: "20240001"}}
	assert.Equal(t, changes, mergeInvoices(nil, changes))
}

func TestMergeMutations(t *testing.T) {
	existing := []eboekhouden.Mutation{
		{Number: 501, Description: "old"},
		{Number: 502},
	}
	changes := []eboekhouden.Mutation{
		{Number: 501, Description: "updated"},
		{Number: 503},
	}

	merged := mergeMutations(existing, changes)

	assert.Equal(t, []eboekhouden.Mutation{
		{Number: 501, Description: "updated"},
		{Number: 502},
		{Number: 503},
	}, merged)
}
