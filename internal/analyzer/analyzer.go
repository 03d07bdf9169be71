package analyzer

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

// Saver persists the full student collection. datafile.File implements it.
type Saver interface {
	Save(students []*grades.Student) error
}

// Analyzer is the in-memory gradebook repository. It owns a name-keyed
// collection of students; the key always equals the record's Name.
//
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	students    map[string]*grades.Student
	saver       Saver
	manualSave  bool
	logger      *slog.Logger
	lastSaveErr error
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSaver enables autosave: every successful mutation is followed by a
// synchronous Save of the whole collection.
func WithSaver(s Saver) Option {
	return func(a *Analyzer) { a.saver = s }
}

// WithAutosave turns autosave on or off for the configured Saver. With
// autosave off, only explicit Save calls write.
func WithAutosave(enabled bool) Option {
	return func(a *Analyzer) { a.manualSave = !enabled }
}

// WithLogger sets the logger used for autosave diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an empty Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		students: make(map[string]*grades.Student),
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Replace swaps the whole collection for the given students. When two
// students share a name the first one wins. Replace does not autosave;
// callers that want the new state persisted call Save.
func (a *Analyzer) Replace(students []*grades.Student) {
	a.students = make(map[string]*grades.Student, len(students))
	for _, s := range students {
		if s == nil {
			continue
		}
		if _, dup := a.students[s.Name]; dup {
			a.logger.Warn("analyzer.replace.duplicate", "student", s.Name)
			continue
		}
		a.students[s.Name] = s.Clone()
	}
}

// Len returns the number of students.
func (a *Analyzer) Len() int {
	return len(a.students)
}

// Student returns a copy of the named student.
func (a *Analyzer) Student(name string) (*grades.Student, bool) {
	s, ok := a.students[name]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// Names returns all student names in display order.
func (a *Analyzer) Names() []string {
	names := make([]string, 0, len(a.students))
	for name := range a.students {
		names = append(names, name)
	}
	sortNames(names)
	return names
}

// Students returns copies of all students in display order.
func (a *Analyzer) Students() []*grades.Student {
	names := a.Names()
	out := make([]*grades.Student, 0, len(names))
	for _, name := range names {
		out = append(out, a.students[name].Clone())
	}
	return out
}

// Save writes the collection through the configured Saver and returns its
// result. Without a Saver it is a no-op.
func (a *Analyzer) Save() error {
	if a.saver == nil {
		return nil
	}
	err := a.saver.Save(a.Students())
	a.lastSaveErr = err
	return err
}

// LastSaveError returns the result of the most recent save attempt,
// including autosaves. nil means the last save succeeded or none ran.
func (a *Analyzer) LastSaveError() error {
	return a.lastSaveErr
}

// autosave runs after every successful mutation. A failure never turns the
// mutation into an error; it is logged and kept for LastSaveError.
func (a *Analyzer) autosave(op string) {
	if a.saver == nil || a.manualSave {
		return
	}
	if err := a.Save(); err != nil {
		a.logger.Warn("analyzer.autosave.failed", "op", op, "error", err)
		return
	}
	a.logger.Debug("analyzer.autosave", "op", op, "students", len(a.students))
}

// sortNames orders names case-insensitively, falling back to byte order so
// the result is deterministic.
func sortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		li, lj := strings.ToLower(names[i]), strings.ToLower(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
}
