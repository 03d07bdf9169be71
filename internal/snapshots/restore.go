package snapshots

import (
	"fmt"
	"os"

	"github.com/blackwell-systems/gradebook/internal/datafile"
	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/store"
)

// RestoreSnapshot returns the students recorded in a snapshot. Restoring is
// left to the caller, which replaces its collection and saves.
func (m *Manager) RestoreSnapshot(id int64) ([]*grades.Student, *store.Snapshot, error) {
	snapshot, err := m.store.GetSnapshot(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	students, err := loadSnapshotFile(snapshot.SnapshotPath)
	if err != nil {
		return nil, snapshot, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}

	return students, snapshot, nil
}

// RestoreLatest returns the students of the most recent snapshot.
func (m *Manager) RestoreLatest() ([]*grades.Student, *store.Snapshot, error) {
	latest, err := m.store.LatestSnapshot()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return m.RestoreSnapshot(latest.ID)
}

// loadSnapshotFile reads and parses a snapshot file.
func loadSnapshotFile(path string) ([]*grades.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	students, err := datafile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
	}

	return students, nil
}
