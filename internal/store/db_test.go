package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Helper function to create an in-memory store for testing
func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	if err := store.CreateSchema(); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestListSnapshots_NoSchema_ReturnsErrNotInitialized verifies that querying
// a fresh DB (no CreateSchema) returns ErrNotInitialized.
func TestListSnapshots_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	_, err = s.ListSnapshots()
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListSnapshots() error = %v; want ErrNotInitialized", err)
	}

	err = s.InsertEvent(&Event{Op: "add_student"})
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("InsertEvent() error = %v; want ErrNotInitialized", err)
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("second CreateSchema() failed: %v", err)
	}
}

func TestNew_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gradebook.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%s) failed: %v", path, err)
	}
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	if _, err := s.InsertSnapshot("test", 1, "/tmp/x.json"); err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}
	s.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	snaps, err := reopened.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() failed: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("expected 1 snapshot after reopen, got %d", len(snaps))
	}
}

func TestSnapshots(t *testing.T) {
	s := newTestStore(t)

	before := time.Now().Add(-time.Second)

	id1, err := s.InsertSnapshot("remove Ana", 3, "/snapshots/one.json")
	if err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}
	id2, err := s.InsertSnapshot("", 2, "/snapshots/two.json")
	if err != nil {
		t.Fatalf("InsertSnapshot() failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("expected increasing IDs, got %d then %d", id1, id2)
	}

	snap, err := s.GetSnapshot(id1)
	if err != nil {
		t.Fatalf("GetSnapshot() failed: %v", err)
	}
	if snap.Reason != "remove Ana" {
		t.Errorf("Reason = %q, want %q", snap.Reason, "remove Ana")
	}
	if snap.StudentCount != 3 {
		t.Errorf("StudentCount = %d, want 3", snap.StudentCount)
	}
	if snap.SnapshotPath != "/snapshots/one.json" {
		t.Errorf("SnapshotPath = %q", snap.SnapshotPath)
	}
	if snap.CreatedAt.Before(before) {
		t.Errorf("CreatedAt %v is before test start %v", snap.CreatedAt, before)
	}

	latest, err := s.LatestSnapshot()
	if err != nil {
		t.Fatalf("LatestSnapshot() failed: %v", err)
	}
	if latest.ID != id2 {
		t.Errorf("LatestSnapshot().ID = %d, want %d", latest.ID, id2)
	}

	all, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != id2 || all[1].ID != id1 {
		t.Errorf("ListSnapshots() not newest first: %+v", all)
	}
}

func TestSnapshots_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSnapshot(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSnapshot(42) error = %v, want ErrNotFound", err)
	}
	if _, err := s.LatestSnapshot(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestSnapshot() error = %v, want ErrNotFound", err)
	}

	snaps, err := s.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots() failed: %v", err)
	}
	if len(snaps) != 0 {
		t.Errorf("expected no snapshots, got %d", len(snaps))
	}
}

func TestEvents(t *testing.T) {
	s := newTestStore(t)

	events := []*Event{
		{Op: "add_student", Student: "Ana"},
		{Op: "add_grade", Student: "Ana", Detail: "90"},
		{Op: "add_student", Student: "Bo"},
		{Op: "import", Detail: "3 students"},
	}
	for _, ev := range events {
		if err := s.InsertEvent(ev); err != nil {
			t.Fatalf("InsertEvent(%s) failed: %v", ev.Op, err)
		}
		if ev.ID == 0 {
			t.Errorf("InsertEvent(%s) did not set ID", ev.Op)
		}
	}

	count, err := s.GetEventCount()
	if err != nil {
		t.Fatalf("GetEventCount() failed: %v", err)
	}
	if count != 4 {
		t.Errorf("GetEventCount() = %d, want 4", count)
	}

	all, err := s.ListEvents("", 0)
	if err != nil {
		t.Fatalf("ListEvents() failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("ListEvents() returned %d events, want 4", len(all))
	}
	if all[0].Op != "import" || all[3].Op != "add_student" {
		t.Errorf("events not newest first: %s ... %s", all[0].Op, all[3].Op)
	}

	limited, err := s.ListEvents("", 2)
	if err != nil {
		t.Fatalf("ListEvents(limit) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListEvents(limit 2) returned %d events", len(limited))
	}

	ana, err := s.ListEvents("Ana", 0)
	if err != nil {
		t.Fatalf("ListEvents(Ana) failed: %v", err)
	}
	if len(ana) != 2 {
		t.Fatalf("ListEvents(Ana) returned %d events, want 2", len(ana))
	}
	if ana[0].Detail != "90" {
		t.Errorf("Detail = %q, want 90", ana[0].Detail)
	}
}

func TestInsertEvent_KeepsExplicitTime(t *testing.T) {
	s := newTestStore(t)

	at := time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)
	if err := s.InsertEvent(&Event{Op: "add_student", Student: "Ana", CreatedAt: at}); err != nil {
		t.Fatalf("InsertEvent() failed: %v", err)
	}

	events, err := s.ListEvents("", 1)
	if err != nil {
		t.Fatalf("ListEvents() failed: %v", err)
	}
	if !events[0].CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", events[0].CreatedAt, at)
	}
}

func TestErrNotInitialized_Message(t *testing.T) {
	if !strings.Contains(ErrNotInitialized.Error(), "not initialized") {
		t.Errorf("unexpected message: %q", ErrNotInitialized.Error())
	}
}
