// Package output provides terminal output utilities for gradebook.
//
// This package includes:
//   - Table rendering for students, class statistics, snapshots and history
//   - Progress bars and spinners for long-running imports and exports
//
// Tables use plain ASCII columns and ANSI color codes when stdout is a terminal.
// Progress indicators are safe to use from multiple goroutines.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/gradebook/internal/analyzer"
	"github.com/blackwell-systems/gradebook/internal/grades"
	"github.com/blackwell-systems/gradebook/internal/report"
	"github.com/blackwell-systems/gradebook/internal/store"
)

// ANSI color codes for average tiers
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// Average tier boundaries.
const (
	passingAverage = 70
	warningAverage = 50
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// averageColor picks the color for a student's average.
func averageColor(s grades.Summary) string {
	switch {
	case !s.HasGrades:
		return colorGray
	case s.Average >= passingAverage:
		return colorGreen
	case s.Average >= warningAverage:
		return colorYellow
	default:
		return colorRed
	}
}

// RenderStudentTable renders one row per student. Students are rendered in
// the order given; callers pass the analyzer's sorted order.
func RenderStudentTable(students []*grades.Student) string {
	if len(students) == 0 {
		return "No students found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-20s %6s %8s %8s %8s %8s\n",
		"Student", "Grades", "Average", "Highest", "Lowest", "Median"))
	sb.WriteString(strings.Repeat("─", 63))
	sb.WriteString("\n")

	for _, s := range students {
		sum := s.Summary()
		avg := "-"
		if sum.HasGrades {
			avg = report.FormatAverage(sum.Average)
		}

		// Pad before coloring so escape codes don't break alignment
		sb.WriteString(fmt.Sprintf("%-20s %6d %s %8s %8s %8s\n",
			truncate(s.Name, 20),
			sum.Count,
			colorize(averageColor(sum), fmt.Sprintf("%8s", avg)),
			report.FormatOptional(sum.Highest, sum.HasGrades),
			report.FormatOptional(sum.Lowest, sum.HasGrades),
			report.FormatOptional(sum.Median, sum.HasGrades)))
	}

	return sb.String()
}

// RenderStudentDetail renders a single student with numbered grades. The
// numbers match the 1-based positions accepted by grade edit and delete.
func RenderStudentDetail(s *grades.Student) string {
	var sb strings.Builder
	sum := s.Summary()

	sb.WriteString(fmt.Sprintf("Student: %s\n", s.Name))
	if !sum.HasGrades {
		sb.WriteString("No grades recorded.\n")
		return sb.String()
	}

	sb.WriteString("\n")
	for i, g := range s.Grades {
		sb.WriteString(fmt.Sprintf("  %3d. %s\n", i+1, report.FormatGrade(g)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Average: %s\n",
		colorize(averageColor(sum), report.FormatAverage(sum.Average))))
	sb.WriteString(fmt.Sprintf("Highest: %s\n", report.FormatGrade(sum.Highest)))
	sb.WriteString(fmt.Sprintf("Lowest:  %s\n", report.FormatGrade(sum.Lowest)))
	sb.WriteString(fmt.Sprintf("Median:  %s\n", report.FormatGrade(sum.Median)))

	return sb.String()
}

// RenderClassSummary renders class-wide statistics.
func RenderClassSummary(cs analyzer.ClassSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Students:        %d (%d graded)\n", cs.Students, cs.Graded))
	sb.WriteString(fmt.Sprintf("Grades recorded: %d\n", cs.Grades))

	if cs.Graded == 0 {
		sb.WriteString("No grades recorded yet.\n")
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Mean grade:      %s\n", report.FormatAverage(cs.GradeMean)))
	sb.WriteString(fmt.Sprintf("Mean average:    %s\n", report.FormatAverage(cs.AverageMean)))
	sb.WriteString(fmt.Sprintf("Best:            %s (%s)\n", cs.Best, report.FormatAverage(cs.BestAverage)))
	sb.WriteString(fmt.Sprintf("Lowest:          %s (%s)\n", cs.Worst, report.FormatAverage(cs.WorstAverage)))

	return sb.String()
}

// RenderSnapshotTable renders a table of snapshots in the order given
// (the store returns newest first).
func RenderSnapshotTable(snapshots []*store.Snapshot) string {
	if len(snapshots) == 0 {
		return "No snapshots found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-5s %-17s %-10s %s\n",
		"ID", "Created", "Students", "Reason"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, snap := range snapshots {
		sb.WriteString(fmt.Sprintf("%-5d %-17s %-10d %s\n",
			snap.ID,
			formatRelativeTime(snap.CreatedAt),
			snap.StudentCount,
			truncate(snap.Reason, 40)))
	}

	return sb.String()
}

// RenderEventTable renders the change history.
func RenderEventTable(events []*store.Event) string {
	if len(events) == 0 {
		return "No history recorded.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-17s %-14s %-20s %s\n",
		"When", "Operation", "Student", "Detail"))
	sb.WriteString(strings.Repeat("─", 80))
	sb.WriteString("\n")

	for _, ev := range events {
		student := ev.Student
		if student == "" {
			student = "-"
		}
		sb.WriteString(fmt.Sprintf("%-17s %-14s %-20s %s\n",
			formatRelativeTime(ev.CreatedAt),
			ev.Op,
			truncate(student, 20),
			truncate(ev.Detail, 30)))
	}

	return sb.String()
}

// formatRelativeTime converts a timestamp to relative time (e.g., "2 days ago").
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if time.Since(t) < time.Minute {
		return "just now"
	}
	return humanize.Time(t)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
// truncate shortens s to at most maxLen runes. Table columns are padded
// with fmt width verbs, which also count runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
