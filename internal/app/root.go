package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	dataPath string
	debug    bool

	// RootCmd is the root command for gradebook
	RootCmd = &cobra.Command{
		Use:   "gradebook",
		Short: "Record student grades and report on them",
		Long: `gradebook keeps a list of students and their grades (0-100), computes
average, highest, lowest and median per student, and exports text, CSV and
XLSX reports.

Every change is saved to the data file immediately. Destructive changes
(remove, grade delete, import, undo) take a snapshot first so they can be
rolled back with 'gradebook undo'.

Files:
  ~/.config/gradebook/config.yaml   optional settings
  ~/.gradebook/grades.json          data file (override with --data or GRADEBOOK_DATA)
  ~/.gradebook/gradebook.db         snapshot index and change history
  ~/.gradebook/logs/gradebook.log   diagnostics

Examples:
  gradebook add "Ana"
  gradebook grade add Ana 92.5
  gradebook list
  gradebook export -f csv -o report.csv
  gradebook undo latest`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "gradebook: student grades with statistics and reports")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'gradebook add <name>' to add a student.")
			fmt.Fprintln(out, "Run 'gradebook --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	// Global flags
	RootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "data file path (default: ~/.gradebook/grades.json)")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug records to the log file")

	// Enable cobra's built-in suggestion feature for unknown subcommands
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
