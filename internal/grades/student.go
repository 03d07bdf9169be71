// Package grades defines the student record and the statistics derived from
// its grades.
package grades

import (
	"math"
	"sort"
)

// Grades accepted by the gradebook lie in [MinGrade, MaxGrade].
const (
	MinGrade = 0.0
	MaxGrade = 100.0
)

// Student is a single record: a name and the grades recorded for it, in the
// order they were added. The record does not validate grade ranges; the
// repository does that before calling AddGrade.
type Student struct {
	Name   string
	Grades []float64
}

// Summary holds every statistic of a student at once.
// Highest, Lowest and Median are only meaningful when HasGrades is true.
type Summary struct {
	Name      string
	Count     int
	Average   float64
	Highest   float64
	Lowest    float64
	Median    float64
	HasGrades bool
}

// NewStudent creates a student with the given grades.
func NewStudent(name string, grades ...float64) *Student {
	g := make([]float64, len(grades))
	copy(g, grades)
	return &Student{Name: name, Grades: g}
}

// ValidGrade reports whether v is inside the accepted grade range.
func ValidGrade(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	return v >= MinGrade && v <= MaxGrade
}

// AddGrade appends a grade.
func (s *Student) AddGrade(v float64) {
	s.Grades = append(s.Grades, v)
}

// Average returns the arithmetic mean of the grades, or 0 when there are none.
func (s *Student) Average() float64 {
	if len(s.Grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range s.Grades {
		sum += g
	}
	return sum / float64(len(s.Grades))
}

// Highest returns the largest grade. ok is false when there are no grades.
func (s *Student) Highest() (v float64, ok bool) {
	if len(s.Grades) == 0 {
		return 0, false
	}
	v = s.Grades[0]
	for _, g := range s.Grades[1:] {
		if g > v {
			v = g
		}
	}
	return v, true
}

// Lowest returns the smallest grade. ok is false when there are no grades.
func (s *Student) Lowest() (v float64, ok bool) {
	if len(s.Grades) == 0 {
		return 0, false
	}
	v = s.Grades[0]
	for _, g := range s.Grades[1:] {
		if g < v {
			v = g
		}
	}
	return v, true
}

// Median returns the statistical median, averaging the two central values
// for an even count. ok is false when there are no grades.
func (s *Student) Median() (v float64, ok bool) {
	n := len(s.Grades)
	if n == 0 {
		return 0, false
	}

	sorted := make([]float64, n)
	copy(sorted, s.Grades)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2], true
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, true
}

// Summary computes all statistics of the student.
func (s *Student) Summary() Summary {
	sum := Summary{
		Name:      s.Name,
		Count:     len(s.Grades),
		Average:   s.Average(),
		HasGrades: len(s.Grades) > 0,
	}
	sum.Highest, _ = s.Highest()
	sum.Lowest, _ = s.Lowest()
	sum.Median, _ = s.Median()
	return sum
}

// Clone returns a deep copy of the student.
func (s *Student) Clone() *Student {
	return NewStudent(s.Name, s.Grades...)
}
