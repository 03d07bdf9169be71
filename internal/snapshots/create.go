package snapshots

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/gradebook/internal/datafile"
	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/store"
)

// CreateSnapshot writes students to a new snapshot file and returns the
// snapshot ID.
func (m *Manager) CreateSnapshot(students []*grades.Student, reason string) (int64, error) {
	data, err := datafile.Encode(students)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return m.write(data, ".json", reason, len(students))
}

// SnapshotRaw keeps an unparsed copy of a data file before it is replaced,
// so a file that could not be read is never lost to an autosave.
func (m *Manager) SnapshotRaw(data []byte, reason string) (int64, error) {
	return m.write(data, ".raw.json", reason, 0)
}

func (m *Manager) write(data []byte, ext, reason string, count int) (int64, error) {
	// Ensure snapshot directory exists
	if err := os.MkdirAll(m.snapshotDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// Snapshot filename: YYYY-MM-DD-HHMMSS-<short id><ext>
	timestamp := m.now().Format("2006-01-02-150405")
	snapshotFilename := fmt.Sprintf("%s-%s%s", timestamp, uuid.NewString()[:8], ext)
	snapshotPath := filepath.Join(m.snapshotDir, snapshotFilename)

	if err := os.WriteFile(snapshotPath, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write snapshot file: %w", err)
	}

	snapshotID, err := m.store.InsertSnapshot(reason, count, snapshotPath)
	if err != nil {
		// Try to clean up the JSON file if DB insert fails
		os.Remove(snapshotPath)
		return 0, fmt.Errorf("failed to insert snapshot into database: %w", err)
	}

	return snapshotID, nil
}

// ListSnapshots returns all snapshots, newest first.
func (m *Manager) ListSnapshots() ([]*store.Snapshot, error) {
	snapshots, err := m.store.ListSnapshots()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return snapshots, nil
}

// CleanupOldSnapshots removes snapshot files older than maxAge and returns
// how many were removed. Database rows are kept as an audit log.
func (m *Manager) CleanupOldSnapshots(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	snapshots, err := m.store.ListSnapshots()
	if err != nil {
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	cutoff := m.now().Add(-maxAge)
	deletedCount := 0

	for _, snapshot := range snapshots {
		if !snapshot.CreatedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(snapshot.SnapshotPath); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return deletedCount, fmt.Errorf("failed to delete snapshot file %s: %w", snapshot.SnapshotPath, err)
		}
		deletedCount++
	}

	return deletedCount, nil
}
