// Package report renders the gradebook as text, CSV or XLSX reports.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

// Format is a report output format.
type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// absent is printed for statistics of a student without grades.
const absent = "-"

// ParseFormat accepts "txt" (or "text"), "csv" and "xlsx", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want txt, csv or xlsx)", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Write renders students in the given format. Students are written in the
// order given.
func Write(w io.Writer, format Format, students []*grades.Student) error {
	switch format {
	case FormatText:
		return WriteText(w, students)
	case FormatCSV:
		return WriteCSV(w, students)
	case FormatXLSX:
		return WriteXLSX(w, students)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// FormatGrade renders a grade with the shortest exact decimal form
// (80, 92.5).
func FormatGrade(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAverage renders an average with two decimals.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatGradeList renders grades as "[80, 90, 100]".
func FormatGradeList(g []float64) string {
	parts := make([]string, len(g))
	for i, v := range g {
		parts[i] = FormatGrade(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatOptional renders a grade statistic, or "-" when ok is false.
func FormatOptional(v float64, ok bool) string {
	if !ok {
		return absent
	}
	return FormatGrade(v)
}
