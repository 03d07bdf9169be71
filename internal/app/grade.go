package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/report"
)

var gradeDeleteFlagYes bool

var gradeCmd = &cobra.Command{
	Use:   "grade",
	Short: "Add, edit or delete a student's grades",
	Long: `Add, edit or delete a student's grades.

Grades are numbers from 0 to 100; decimals are allowed. Positions are
1-based, as printed by 'gradebook show'.`,
}

var gradeAddCmd = &cobra.Command{
	Use:     "add <name> <value>",
	Short:   "Append a grade",
	Example: `  gradebook grade add Ana 92.5`,
	Args:    cobra.ExactArgs(2),
	RunE:    runGradeAdd,
}

var gradeEditCmd = &cobra.Command{
	Use:     "edit <name> <position> <value>",
	Short:   "Replace the grade at a position",
	Example: `  gradebook grade edit Ana 2 88   # Second grade becomes 88`,
	Args:    cobra.ExactArgs(3),
	RunE:    runGradeEdit,
}

var gradeDeleteCmd = &cobra.Command{
	Use:   "delete <name> <position>",
	Short: "Delete the grade at a position",
	Long: `Delete the grade at a position. A snapshot is taken first; restore it
with 'gradebook undo latest'.`,
	Example: `  gradebook grade delete Ana 1
  gradebook grade delete Ana 1 --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runGradeDelete,
}

func init() {
	gradeDeleteCmd.Flags().BoolVarP(&gradeDeleteFlagYes, "yes", "y", false, "Skip confirmation prompt")

	gradeCmd.AddCommand(gradeAddCmd)
	gradeCmd.AddCommand(gradeEditCmd)
	gradeCmd.AddCommand(gradeDeleteCmd)
	RootCmd.AddCommand(gradeCmd)
}

func runGradeAdd(cmd *cobra.Command, args []string) error {
	name := parseName(args[0])
	value, err := parseGrade(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.beforeChange(); err != nil {
		return err
	}
	if err := s.book.AddGrade(name, value); err != nil {
		return err
	}
	if err := s.commit("add_grade", name, report.FormatGrade(value)); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Added %s to %s\n", report.FormatGrade(value), name)
	return nil
}

func runGradeEdit(cmd *cobra.Command, args []string) error {
	name := parseName(args[0])
	index, err := parsePosition(args[1])
	if err != nil {
		return err
	}
	value, err := parseGrade(args[2])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.beforeChange(); err != nil {
		return err
	}
	previous, err := s.book.Grade(name, index)
	if err != nil {
		return err
	}
	if err := s.book.EditGrade(name, index, value); err != nil {
		return err
	}
	detail := fmt.Sprintf("#%d %s -> %s", index+1, report.FormatGrade(previous), report.FormatGrade(value))
	if err := s.commit("edit_grade", name, detail); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Changed grade %d of %s from %s to %s\n",
		index+1, name, report.FormatGrade(previous), report.FormatGrade(value))
	return nil
}

func runGradeDelete(cmd *cobra.Command, args []string) error {
	name := parseName(args[0])
	index, err := parsePosition(args[1])
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	value, err := s.book.Grade(name, index)
	if err != nil {
		return err
	}

	if !gradeDeleteFlagYes {
		prompt := fmt.Sprintf("Delete grade %d (%s) of %s?", index+1, report.FormatGrade(value), name)
		if !confirm(cmd, prompt) {
			fmt.Fprintln(s.out, "Deletion cancelled.")
			return nil
		}
	}

	id, err := s.snapshot(fmt.Sprintf("delete grade %d of %s", index+1, name))
	if err != nil {
		return err
	}
	removed, err := s.book.DeleteGrade(name, index)
	if err != nil {
		return err
	}
	detail := fmt.Sprintf("#%d %s (snapshot %d)", index+1, report.FormatGrade(removed), id)
	if err := s.commit("delete_grade", name, detail); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Deleted grade %s from %s (snapshot %d)\n", report.FormatGrade(removed), name, id)
	return nil
}
