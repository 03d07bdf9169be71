package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/output"
	"github.com/blackwell-systems/gradebook/internal/store"
)

var (
	undoFlagList bool
	undoFlagYes  bool
)

var undoCmd = &cobra.Command{
	Use:   "undo [snapshot-id | latest]",
	Short: "Restore the gradebook from a snapshot",
	Long: `Restore the gradebook from a snapshot.

Snapshots are automatically created before remove, grade delete, import and
undo, so an undo can itself be undone.

Arguments:
  snapshot-id  The numeric ID of the snapshot to restore
  latest       Restore the most recent snapshot`,
	Example: `  gradebook undo --list           # List all snapshots
  gradebook undo latest           # Restore latest snapshot
  gradebook undo 42               # Restore snapshot ID 42
  gradebook undo 42 --yes         # Restore without confirmation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	undoCmd.Flags().BoolVar(&undoFlagList, "list", false, "List available snapshots")
	undoCmd.Flags().BoolVarP(&undoFlagYes, "yes", "y", false, "Skip confirmation prompt")

	RootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	// Handle --list flag
	if undoFlagList {
		return listSnapshots(s)
	}

	// Require snapshot ID or "latest"
	if len(args) == 0 {
		return fmt.Errorf("snapshot ID or 'latest' required\n\nUsage: gradebook undo [snapshot-id | latest]\n\nUse 'gradebook undo --list' to see available snapshots")
	}

	var (
		restored []*grades.Student
		snapshot *store.Snapshot
	)
	if strings.ToLower(args[0]) == "latest" {
		restored, snapshot, err = s.snaps.RestoreLatest()
		if snapshot == nil && errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no snapshots available\n\nSnapshots are created automatically before remove, grade delete and import")
		}
		if snapshot != nil {
			fmt.Fprintf(s.out, "Using latest snapshot: ID %d\n", snapshot.ID)
		}
	} else {
		id, perr := strconv.ParseInt(args[0], 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid snapshot ID: %s (must be a number or 'latest')", args[0])
		}
		restored, snapshot, err = s.snaps.RestoreSnapshot(id)
		if snapshot == nil && errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("snapshot %d not found\n\nRun 'gradebook undo --list' to see available snapshots", id)
		}
	}
	if err != nil {
		if snapshot != nil {
			return fmt.Errorf("%w\n\nSnapshot file: %s", err, snapshot.SnapshotPath)
		}
		return err
	}

	// Display snapshot details
	fmt.Fprintf(s.out, "\nSnapshot Details:\n")
	fmt.Fprintf(s.out, "  ID: %d\n", snapshot.ID)
	fmt.Fprintf(s.out, "  Created: %s\n", snapshot.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(s.out, "  Reason: %s\n", snapshot.Reason)
	fmt.Fprintf(s.out, "  Students: %d (currently %d)\n", len(restored), s.book.Len())
	fmt.Fprintln(s.out)

	if !undoFlagYes {
		if !confirm(cmd, "Replace the current gradebook with this snapshot?") {
			fmt.Fprintln(s.out, "Restoration cancelled.")
			return nil
		}
	}

	backupID, err := s.snapshot(fmt.Sprintf("undo to snapshot %d", snapshot.ID))
	if err != nil {
		return err
	}

	s.book.Replace(restored)
	if err := s.save(); err != nil {
		return err
	}
	s.record("undo", "", fmt.Sprintf("restored snapshot %d (backup %d)", snapshot.ID, backupID))

	fmt.Fprintf(s.out, "✓ Restored %d student(s) from snapshot %d\n", len(restored), snapshot.ID)
	fmt.Fprintf(s.out, "  The previous state is snapshot %d\n", backupID)
	return nil
}

// listSnapshots displays all available snapshots.
func listSnapshots(s *session) error {
	snaps, err := s.snaps.ListSnapshots()
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		fmt.Fprintln(s.out, "No snapshots available.")
		fmt.Fprintln(s.out, "\nSnapshots are created automatically before remove, grade delete and import.")
		return nil
	}

	fmt.Fprintf(s.out, "\nAvailable snapshots (%s):\n\n", s.snaps.Dir())
	fmt.Fprint(s.out, output.RenderSnapshotTable(snaps))
	fmt.Fprintf(s.out, "\nRestore with: gradebook undo <id>\n")
	return nil
}

