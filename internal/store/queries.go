package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Snapshot operations

// InsertSnapshot records a snapshot file and returns its ID.
func (s *Store) InsertSnapshot(reason string, studentCount int, path string) (int64, error) {
	query := `
		INSERT INTO snapshots (created_at, reason, student_count, snapshot_path)
		VALUES (?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		time.Now().UTC().Format(time.RFC3339Nano),
		reason,
		studentCount,
		path,
	)
	if err != nil {
		return 0, wrapQueryErr(err, "failed to insert snapshot")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get snapshot ID: %w", err)
	}

	return id, nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(id int64) (*Snapshot, error) {
	query := `
		SELECT id, created_at, reason, student_count, snapshot_path
		FROM snapshots
		WHERE id = ?
	`

	snapshot, err := scanSnapshot(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, wrapQueryErr(err, fmt.Sprintf("failed to get snapshot %d", id))
	}

	return snapshot, nil
}

// LatestSnapshot returns the most recent snapshot.
func (s *Store) LatestSnapshot() (*Snapshot, error) {
	query := `
		SELECT id, created_at, reason, student_count, snapshot_path
		FROM snapshots
		ORDER BY id DESC
		LIMIT 1
	`

	snapshot, err := scanSnapshot(s.db.QueryRow(query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("latest snapshot: %w", ErrNotFound)
	}
	if err != nil {
		return nil, wrapQueryErr(err, "failed to get latest snapshot")
	}

	return snapshot, nil
}

// ListSnapshots returns all snapshots ordered by creation (newest first).
func (s *Store) ListSnapshots() ([]*Snapshot, error) {
	query := `
		SELECT id, created_at, reason, student_count, snapshot_path
		FROM snapshots
		ORDER BY id DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to list snapshots")
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	var snapshot Snapshot
	var createdAt string
	var reason sql.NullString

	err := row.Scan(
		&snapshot.ID,
		&createdAt,
		&reason,
		&snapshot.StudentCount,
		&snapshot.SnapshotPath,
	)
	if err != nil {
		return nil, err
	}
	snapshot.Reason = reason.String

	snapshot.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for snapshot %d: %w", snapshot.ID, err)
	}

	return &snapshot, nil
}

// Event operations

// InsertEvent appends an entry to the change history. A zero CreatedAt is
// replaced by the current time.
func (s *Store) InsertEvent(event *Event) error {
	query := `
		INSERT INTO events (op, student, detail, created_at)
		VALUES (?, ?, ?, ?)
	`

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.Exec(query,
		event.Op,
		event.Student,
		event.Detail,
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return wrapQueryErr(err, fmt.Sprintf("failed to insert %s event", event.Op))
	}

	if id, err := result.LastInsertId(); err == nil {
		event.ID = id
	}
	return nil
}

// ListEvents returns the most recent events, newest first. A limit of 0 or
// less returns every event. A non-empty student filters on that student.
func (s *Store) ListEvents(student string, limit int) ([]*Event, error) {
	query := `
		SELECT id, op, student, detail, created_at
		FROM events
		WHERE (? = '' OR student = ?)
		ORDER BY id DESC
	`
	args := []any{student, student}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrapQueryErr(err, "failed to list events")
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var ev Event
		var studentName, detail sql.NullString
		var createdAt string

		if err := rows.Scan(&ev.ID, &ev.Op, &studentName, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ev.Student = studentName.String
		ev.Detail = detail.String

		ev.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for event %d: %w", ev.ID, err)
		}

		events = append(events, &ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// GetEventCount returns the total number of events recorded.
func (s *Store) GetEventCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, wrapQueryErr(err, "failed to get event count")
	}
	return count, nil
}
