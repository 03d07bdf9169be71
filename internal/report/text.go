package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

// WriteText writes the human-readable report: a header, then one block per
// student with its grades and statistics, each closed by a separator line.
func WriteText(w io.Writer, students []*grades.Student) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "STUDENT GRADE REPORT")
	fmt.Fprintln(bw, "====================")
	fmt.Fprintln(bw)

	for _, s := range students {
		hi, hiOK := s.Highest()
		lo, loOK := s.Lowest()
		med, medOK := s.Median()

		fmt.Fprintf(bw, "Name: %s\n", s.Name)
		fmt.Fprintf(bw, "Grades: %s\n", FormatGradeList(s.Grades))
		fmt.Fprintf(bw, "Average: %s\n", FormatAverage(s.Average()))
		fmt.Fprintf(bw, "Highest: %s\n", FormatOptional(hi, hiOK))
		fmt.Fprintf(bw, "Lowest: %s\n", FormatOptional(lo, loOK))
		fmt.Fprintf(bw, "Median: %s\n", FormatOptional(med, medOK))
		fmt.Fprintln(bw, strings.Repeat("-", 30))
	}

	return bw.Flush()
}
