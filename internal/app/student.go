package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/analyzer"
	"github.com/blackwell-systems/gradebook/internal/output"
)

var removeFlagYes bool

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a student",
	Long: `Add a student with no grades. Names are trimmed and must be unique;
matching is case-sensitive, so "ana" and "Ana" are different students.`,
	Example: `  gradebook add Ana
  gradebook add "Ana Lima"`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a student, keeping their grades",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a student and all of their grades",
	Long: `Remove a student and all of their grades.

A snapshot is taken first; restore it with 'gradebook undo latest'.`,
	Example: `  gradebook remove Ana
  gradebook remove Ana --yes   # Skip confirmation`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a student's grades and statistics",
	Long: `Show a student's grades and statistics. Grades are numbered from 1; use
these numbers with 'gradebook grade edit' and 'gradebook grade delete'.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeFlagYes, "yes", "y", false, "Skip confirmation prompt")

	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(renameCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(showCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	name := parseName(args[0])
	if err := s.beforeChange(); err != nil {
		return err
	}
	if err := s.book.AddStudent(name); err != nil {
		return err
	}
	if err := s.commit("add_student", name, ""); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Added %s\n", name)
	return nil
}

func runRename(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	oldName, newName := parseName(args[0]), parseName(args[1])
	if err := s.beforeChange(); err != nil {
		return err
	}
	if err := s.book.RenameStudent(oldName, newName); err != nil {
		return err
	}
	if oldName == newName {
		fmt.Fprintf(s.out, "%s already has that name.\n", oldName)
		return nil
	}
	if err := s.commit("rename_student", newName, "from "+oldName); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Renamed %s to %s\n", oldName, newName)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	name := parseName(args[0])
	student, ok := s.book.Student(name)
	if !ok {
		return fmt.Errorf("%w: %q", analyzer.ErrStudentNotFound, name)
	}

	if !removeFlagYes {
		prompt := fmt.Sprintf("Remove %s and %d grade(s)?", name, len(student.Grades))
		if !confirm(cmd, prompt) {
			fmt.Fprintln(s.out, "Removal cancelled.")
			return nil
		}
	}

	id, err := s.snapshot("remove " + name)
	if err != nil {
		return err
	}
	if err := s.book.RemoveStudent(name); err != nil {
		return err
	}
	if err := s.commit("remove_student", name, fmt.Sprintf("snapshot %d", id)); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Removed %s (snapshot %d)\n", name, id)
	fmt.Fprintln(s.out, "  Undo with: gradebook undo latest")
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	name := parseName(args[0])
	student, ok := s.book.Student(name)
	if !ok {
		return fmt.Errorf("%w: %q", analyzer.ErrStudentNotFound, name)
	}

	fmt.Fprint(s.out, output.RenderStudentDetail(student))
	return nil
}
