package report

import (
	"encoding/csv"
	"io"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

var csvHeader = []string{"name", "grade", "average", "highest", "lowest", "median"}

// csvRows returns the data rows of the tabular report: one row per grade,
// each repeating the student's statistics. A student without grades gets a
// single row with the name and four empty fields.
func csvRows(students []*grades.Student) [][]string {
	var rows [][]string
	for _, s := range students {
		if len(s.Grades) == 0 {
			rows = append(rows, []string{s.Name, "", "", "", ""})
			continue
		}

		sum := s.Summary()
		avg := FormatAverage(sum.Average)
		hi := FormatGrade(sum.Highest)
		lo := FormatGrade(sum.Lowest)
		med := FormatGrade(sum.Median)
		for _, g := range s.Grades {
			rows = append(rows, []string{s.Name, FormatGrade(g), avg, hi, lo, med})
		}
	}
	return rows
}

// WriteCSV writes the CSV report.
func WriteCSV(w io.Writer, students []*grades.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(csvRows(students)); err != nil {
		return err
	}
	return cw.Error()
}
