package state

import (
	"encoding/json"
	"os"
)

// Watermark for entities that have never been exported. Far enough back to
// cover any administration's history.
const initialWatermark = "1970-01-01T00:00:00Z"

type LastExport struct {
	Invoices  string `json:"invoices"`
	Mutations string `json:"mutations"`
}

type State struct {
	LastExport LastExport `json:"lastExport"`
}

type Manager struct {
	Path  string
	State State
}

var DefaultState = State{
	LastExport: LastExport{
		Invoices:  initialWatermark,
		Mutations: initialWatermark,
	},
}

func NewManager(path string) *Manager {
	return &Manager{
		Path:  path,
		State: DefaultState,
	}
}

func (m *Manager) Load() error {
	if _, err := os.Stat(m.Path); os.IsNotExist(err) {
		m.State = DefaultState
		return nil
	}

	data, err := os.ReadFile(m.Path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &m.State); err != nil {
		return err
	}
	return nil
}

func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.State, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.Path, data, 0644)
}

func (m *Manager) UpdateInvoices(timestamp string) {
	m.State.LastExport.Invoices = timestamp
}

func (m *Manager) UpdateMutations(timestamp string) {
	m.State.LastExport.Mutations = timestamp
}

func (m *Manager) GetLastExportInvoices() string {
	return m.State.LastExport.Invoices
}

func (m *Manager) GetLastExportMutations() string {
	return m.State.LastExport.Mutations
}
