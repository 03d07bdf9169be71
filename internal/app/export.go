package app

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/output"
	"github.com/blackwell-systems/gradebook/internal/report"
)

var (
	exportFlagFormat string
	exportFlagOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a text, CSV or XLSX report",
	Long: `Write a report of every student with average, highest, lowest and median.

Formats:
  txt   one block per student (default)
  csv   one row per grade, statistics repeated on each row
  xlsx  workbook with a Grades sheet and a Summary sheet

Without --format, the format is taken from the --output extension. Text and
CSV reports go to stdout when --output is not set; XLSX needs --output.`,
	Example: `  gradebook export
  gradebook export -f csv > grades.csv
  gradebook export -o grade_report.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFlagFormat, "format", "f", "", "Report format: txt, csv or xlsx")
	exportCmd.Flags().StringVarP(&exportFlagOutput, "output", "o", "", "Output file (default: stdout)")

	RootCmd.AddCommand(exportCmd)
}

// exportFormat resolves the report format from the flags.
func exportFormat() (report.Format, error) {
	if exportFlagFormat != "" {
		return report.ParseFormat(exportFlagFormat)
	}
	if exportFlagOutput != "" {
		if f, ok := report.FormatFromPath(exportFlagOutput); ok {
			return f, nil
		}
	}
	return report.FormatText, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := exportFormat()
	if err != nil {
		return err
	}
	if format == report.FormatXLSX && exportFlagOutput == "" {
		return fmt.Errorf("xlsx reports are binary: set --output, e.g. --output grade_report%s", format.Extension())
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	students := s.book.Students()

	if exportFlagOutput == "" {
		return report.Write(s.out, format, students)
	}

	spinner := output.NewSpinner(s.errOut, fmt.Sprintf("Writing %s report", format))
	spinner.Start()
	err = writeReportFile(exportFlagOutput, format, students)
	spinner.Stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "✓ Wrote %d student(s) to %s\n", len(students), exportFlagOutput)
	return nil
}

// writeReportFile writes the report to path, replacing any existing file.
func writeReportFile(path string, format report.Format, students []*grades.Student) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := report.Write(w, format, students); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report %s: %w", path, err)
	}
	return nil
}
