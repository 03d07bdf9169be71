package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show class-wide statistics",
	Long: `Show class-wide statistics: number of students and grades, the mean of
all grades, the mean of student averages, and the students with the highest
and lowest average.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Fprint(s.out, output.RenderClassSummary(s.book.Summary()))
	return nil
}
