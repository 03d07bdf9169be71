package store

import "time"

// Snapshot is a point-in-time copy of the gradebook stored as a JSON file.
type Snapshot struct {
	ID           int64
	CreatedAt    time.Time
	Reason       string
	StudentCount int
	SnapshotPath string
}

// Event records one successful change to the gradebook.
type Event struct {
	ID        int64
	Op        string // "add_student", "rename_student", "add_grade", ...
	Student   string
	Detail    string
	CreatedAt time.Time
}
