package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/datafile"
	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/output"
)

var (
	importFlagLegacy bool
	importFlagMerge  bool
	importFlagYes    bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load students from a JSON file",
	Long: `Load students from a gradebook JSON file.

By default the imported file replaces the whole gradebook. With --merge,
imported students are added and students that already exist are kept as
they are.

Files written by older versions map names to grades:
  {"Ana": {"grades": [80, 90]}}
Read them with --legacy.

A snapshot is taken first; restore it with 'gradebook undo latest'.`,
	Example: `  gradebook import class.json
  gradebook import old_grades.json --legacy
  gradebook import term2.json --merge`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importFlagLegacy, "legacy", false, "Read the older name-to-grades format")
	importCmd.Flags().BoolVar(&importFlagMerge, "merge", false, "Add to the gradebook instead of replacing it")
	importCmd.Flags().BoolVarP(&importFlagYes, "yes", "y", false, "Skip confirmation prompt")

	RootCmd.AddCommand(importCmd)
}

var errImportNotFound = errors.New("import source not found")

func readImport(path string) ([]*grades.Student, error) {
	var (
		students []*grades.Student
		err      error
	)
	if importFlagLegacy {
		students, err = datafile.ReadLegacy(path)
	} else {
		students, err = datafile.New(path).Load()
	}
	if errors.Is(err, datafile.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", errImportNotFound, path)
	}
	return students, err
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	imported, err := readImport(path)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if !importFlagMerge && s.book.Len() > 0 && !importFlagYes {
		prompt := fmt.Sprintf("Replace %d student(s) with %d from %s?", s.book.Len(), len(imported), filepath.Base(path))
		if !confirm(cmd, prompt) {
			fmt.Fprintln(s.out, "Import cancelled.")
			return nil
		}
	}

	id, err := s.snapshot("import " + filepath.Base(path))
	if err != nil {
		return err
	}

	var result []*grades.Student
	if importFlagMerge {
		result = s.book.Students()
	}

	added, skipped := 0, 0
	progress := output.NewProgress(s.errOut, len(imported), "Importing students")
	for _, st := range imported {
		if _, exists := s.book.Student(st.Name); exists && importFlagMerge {
			skipped++
		} else {
			result = append(result, st)
			added++
		}
		progress.Increment()
	}
	progress.Finish()

	s.book.Replace(result)
	if err := s.save(); err != nil {
		return err
	}
	s.record("import", "", fmt.Sprintf("%d students from %s (snapshot %d)", added, path, id))

	fmt.Fprintf(s.out, "✓ Imported %d student(s) from %s (snapshot %d)\n", added, path, id)
	if skipped > 0 {
		fmt.Fprintf(s.out, "  Kept %d existing student(s) unchanged\n", skipped)
	}
	return nil
}
