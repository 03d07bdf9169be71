// Package datafile reads and writes the gradebook JSON file.
//
// The canonical document is
//
//	{"version": 1, "students": [{"name": "Ana", "grades": [80, 90]}]}
//
// A document without "version" is read as version 1. The older name-keyed
// layout ({"Ana": {"grades": [80, 90]}}) is only accepted through
// ReadLegacy, never guessed at by Load.
package datafile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 1

var (
	// ErrNotFound is returned when the data file does not exist.
	ErrNotFound = errors.New("data file not found")
	// ErrMalformed is returned when the data file cannot be parsed.
	ErrMalformed = errors.New("data file is not valid gradebook JSON")
	// ErrUnsupportedVersion is returned for documents newer than CurrentVersion.
	ErrUnsupportedVersion = errors.New("unsupported data file version")
)

// Document is the on-disk representation.
type Document struct {
	Version  int      `json:"version"`
	Students []Record `json:"students"`
}

// Record is one student in a Document.
type Record struct {
	Name   string    `json:"name"`
	Grades []float64 `json:"grades"`
}

// File is a gradebook stored at a fixed path.
type File struct {
	path string
}

// New returns a File for path. Nothing is read until Load.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Load reads the file. It always returns a usable (possibly empty) slice:
// a missing file yields no students and an error wrapping ErrNotFound, an
// unparseable one yields no students and an error wrapping ErrMalformed or
// ErrUnsupportedVersion.
func (f *File) Load() ([]*grades.Student, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*grades.Student{}, fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return []*grades.Student{}, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	students, err := Decode(data)
	if err != nil {
		return []*grades.Student{}, fmt.Errorf("%s: %w", f.path, err)
	}
	return students, nil
}

// Save writes students to the file, replacing it atomically.
func (f *File) Save(students []*grades.Student) error {
	data, err := Encode(students)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// tmp then rename so a failed write leaves the previous file intact
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close data file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set data file mode: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace data file: %w", err)
	}

	return nil
}

// Encode renders students as a canonical document, sorted by name.
func Encode(students []*grades.Student) ([]byte, error) {
	doc := Document{
		Version:  CurrentVersion,
		Students: make([]Record, 0, len(students)),
	}
	for _, s := range students {
		g := s.Grades
		if g == nil {
			g = []float64{}
		}
		doc.Students = append(doc.Students, Record{Name: s.Name, Grades: g})
	}
	sort.SliceStable(doc.Students, func(i, j int) bool {
		return doc.Students[i].Name < doc.Students[j].Name
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gradebook: %w", err)
	}
	return append(data, '\n'), nil
}

// rawRecord defers decoding the name so that a record with an unusable name
// can be skipped instead of failing the document.
type rawRecord struct {
	Name   json.RawMessage `json:"name"`
	Grades []float64       `json:"grades"`
}

// Decode parses a canonical document. Records without grades get an empty
// grade list; records without a usable name are skipped; repeated names keep
// the first record.
func Decode(data []byte) ([]*grades.Student, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: document is null", ErrMalformed)
	}

	for key := range top {
		if key != "version" && key != "students" {
			return nil, fmt.Errorf("%w: unexpected field %q (legacy name-keyed files must be imported with --legacy)", ErrMalformed, key)
		}
	}

	version := CurrentVersion
	if raw, ok := top["version"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return nil, fmt.Errorf("%w: version: %v", ErrMalformed, err)
		}
	}
	if version < 1 || version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	var records []rawRecord
	if raw, ok := top["students"]; ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: students: %v", ErrMalformed, err)
		}
	}

	students := make([]*grades.Student, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		name, ok := recordName(r.Name)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		students = append(students, grades.NewStudent(name, r.Grades...))
	}
	return students, nil
}

func recordName(raw json.RawMessage) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	return name, true
}
