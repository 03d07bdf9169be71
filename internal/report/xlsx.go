package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

const (
	sheetGrades  = "Grades"
	sheetSummary = "Summary"
)

var summaryHeader = []interface{}{"name", "count", "average", "highest", "lowest", "median"}

// WriteXLSX writes a workbook with two sheets: "Grades" holds the same rows
// as the CSV report with numeric cells, "Summary" holds one row per student.
func WriteXLSX(w io.Writer, students []*grades.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetGrades); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeGradesSheet(f, students); err != nil {
		return err
	}
	if err := writeSummarySheet(f, students); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeGradesSheet(f *excelize.File, students []*grades.Student) error {
	header := make([]interface{}, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := setRow(f, sheetGrades, 1, header); err != nil {
		return err
	}

	row := 2
	for _, s := range students {
		if len(s.Grades) == 0 {
			if err := setRow(f, sheetGrades, row, []interface{}{s.Name}); err != nil {
				return err
			}
			row++
			continue
		}

		sum := s.Summary()
		for _, g := range s.Grades {
			cells := []interface{}{s.Name, g, round2(sum.Average), sum.Highest, sum.Lowest, sum.Median}
			if err := setRow(f, sheetGrades, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetColWidth(sheetGrades, "A", "A", 24)
}

func writeSummarySheet(f *excelize.File, students []*grades.Student) error {
	if err := setRow(f, sheetSummary, 1, summaryHeader); err != nil {
		return err
	}

	for i, s := range students {
		sum := s.Summary()
		cells := []interface{}{s.Name, sum.Count}
		if sum.HasGrades {
			cells = append(cells, round2(sum.Average), sum.Highest, sum.Lowest, sum.Median)
		}
		if err := setRow(f, sheetSummary, i+2, cells); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetSummary, "A", "A", 24)
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
