package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/output"
)

var listFlagSearch string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List students with their statistics",
	Long: `List every student with grade count, average, highest, lowest and median.
Students are ordered by name, ignoring case.`,
	Example: `  gradebook list
  gradebook list --search an   # Only names containing "an"`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find students whose name contains a query",
	Long: `Print the names containing the query, ignoring case, one per line.
An empty query matches every student.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	listCmd.Flags().StringVarP(&listFlagSearch, "search", "s", "", "Only show names containing this text (case-insensitive)")

	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(searchCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	names := s.book.Search(listFlagSearch)
	students := make([]*grades.Student, 0, len(names))
	for _, name := range names {
		if st, ok := s.book.Student(name); ok {
			students = append(students, st)
		}
	}

	if len(students) == 0 && s.book.Len() == 0 {
		fmt.Fprintln(s.out, "No students yet. Add one with: gradebook add <name>")
		return nil
	}

	fmt.Fprint(s.out, output.RenderStudentTable(students))
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	names := s.book.Search(query)
	if len(names) == 0 {
		fmt.Fprintf(s.errOut, "No students match %q.\n", query)
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(s.out, name)
	}
	return nil
}
