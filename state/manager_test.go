package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, m.Load())
	assert.Equal(t, initialWatermark, m.GetLastExportInvoices())
	assert.Equal(t, initialWatermark, m.GetLastExportMutations())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	m := NewManager(path)
	m.UpdateInvoices("2024-05-01T09:00:00Z")
	m.UpdateMutations("2024-05-02T10:00:00Z")
	require.NoError(t, m.Save())

	loaded := NewManager(path)
	require.NoError(t, loaded.Load())
	assert.Equal(t, "2024-05-01T09:00:00Z", loaded.GetLastExportInvoices())
	assert.Equal(t, "2024-05-02T10:00:00Z", loaded.GetLastExportMutations())
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	m := NewManager(path)
	assert.Error(t, m.Load())
}
