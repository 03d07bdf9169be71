package analyzer

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

// Student operations

// AddStudent inserts a student with no grades.
func (a *Analyzer) AddStudent(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if _, exists := a.students[name]; exists {
		return fmt.Errorf("%w: %q", ErrStudentExists, name)
	}

	a.students[name] = grades.NewStudent(name)
	a.logger.Info("analyzer.student.added", "student", name)
	a.autosave("add_student")
	return nil
}

// RenameStudent re-keys a student and updates its Name in the same step.
// Renaming a student to its current name succeeds without changes.
func (a *Analyzer) RenameStudent(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyName
	}
	s, ok := a.students[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrStudentNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := a.students[newName]; exists {
		return fmt.Errorf("%w: %q", ErrStudentExists, newName)
	}

	delete(a.students, oldName)
	s.Name = newName
	a.students[newName] = s

	a.logger.Info("analyzer.student.renamed", "from", oldName, "to", newName)
	a.autosave("rename_student")
	return nil
}

// RemoveStudent deletes a student and all of its grades.
func (a *Analyzer) RemoveStudent(name string) error {
	if _, ok := a.students[name]; !ok {
		return fmt.Errorf("%w: %q", ErrStudentNotFound, name)
	}

	delete(a.students, name)
	a.logger.Info("analyzer.student.removed", "student", name)
	a.autosave("remove_student")
	return nil
}

// Grade operations. Indexes are 0-based; listings shown to users are 1-based.

// AddGrade appends a grade to the named student.
func (a *Analyzer) AddGrade(name string, value float64) error {
	s, ok := a.students[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrStudentNotFound, name)
	}
	if !grades.ValidGrade(value) {
		return fmt.Errorf("%w: got %v", ErrGradeOutOfRange, value)
	}

	s.AddGrade(value)
	a.logger.Info("analyzer.grade.added", "student", name, "grade", value)
	a.autosave("add_grade")
	return nil
}

// EditGrade replaces the grade at index.
func (a *Analyzer) EditGrade(name string, index int, value float64) error {
	s, err := a.gradeTarget(name, index)
	if err != nil {
		return err
	}
	if !grades.ValidGrade(value) {
		return fmt.Errorf("%w: got %v", ErrGradeOutOfRange, value)
	}

	old := s.Grades[index]
	s.Grades[index] = value
	a.logger.Info("analyzer.grade.edited", "student", name, "index", index, "from", old, "to", value)
	a.autosave("edit_grade")
	return nil
}

// DeleteGrade removes the grade at index and returns it.
func (a *Analyzer) DeleteGrade(name string, index int) (float64, error) {
	s, err := a.gradeTarget(name, index)
	if err != nil {
		return 0, err
	}

	removed := s.Grades[index]
	s.Grades = append(s.Grades[:index], s.Grades[index+1:]...)
	a.logger.Info("analyzer.grade.deleted", "student", name, "index", index, "grade", removed)
	a.autosave("delete_grade")
	return removed, nil
}

// Grade returns the grade at index without changing anything.
func (a *Analyzer) Grade(name string, index int) (float64, error) {
	s, err := a.gradeTarget(name, index)
	if err != nil {
		return 0, err
	}
	return s.Grades[index], nil
}

func (a *Analyzer) gradeTarget(name string, index int) (*grades.Student, error) {
	s, ok := a.students[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStudentNotFound, name)
	}
	if index < 0 || index >= len(s.Grades) {
		return nil, fmt.Errorf("%w: %d (student %q has %d grades)", ErrInvalidIndex, index+1, name, len(s.Grades))
	}
	return s, nil
}
