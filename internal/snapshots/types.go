package snapshots

import (
	"time"

	"github.com/blackwell-systems/gradebook/internal/store"
)

// Manager manages snapshot creation, restoration, and cleanup.
// Snapshot contents live in JSON files under snapshotDir; the store keeps
// the index.
type Manager struct {
	store       *store.Store
	snapshotDir string
	now         func() time.Time
}

// New creates a new snapshot Manager.
func New(store *store.Store, snapshotDir string) *Manager {
	return &Manager{
		store:       store,
		snapshotDir: snapshotDir,
		now:         time.Now,
	}
}

// Dir returns the directory snapshot files are written to.
func (m *Manager) Dir() string {
	return m.snapshotDir
}
