package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/output"
)

var (
	historyFlagLimit   int
	historyFlagStudent string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent changes",
	Long: `Show recent changes to the gradebook, newest first. Every successful
add, rename, remove, grade change, import and undo is recorded.`,
	Example: `  gradebook history
  gradebook history --limit 50
  gradebook history --student Ana`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyFlagLimit, "limit", "n", 20, "Number of changes to show (0 for all)")
	historyCmd.Flags().StringVar(&historyFlagStudent, "student", "", "Only show changes to this student")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyFlagLimit < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", historyFlagLimit)
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.store.ListEvents(parseName(historyFlagStudent), historyFlagLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	fmt.Fprint(s.out, output.RenderEventTable(events))
	return nil
}
