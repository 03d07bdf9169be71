package datafile

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blackwell-systems/gradebook/internal/grades"
)

type legacyRecord struct {
	Grades []float64 `json:"grades"`
}

// ReadLegacy reads a name-keyed file ({"Ana": {"grades": [80, 90]}}).
// The key is the student name; a missing grades field means no grades.
// Students are returned sorted by name.
func ReadLegacy(path string) ([]*grades.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeLegacy(data)
}

// DecodeLegacy parses a name-keyed document.
func DecodeLegacy(data []byte) ([]*grades.Student, error) {
	var doc map[string]legacyRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Keys that differ only in surrounding space collapse onto the first
	// key in sorted order.
	students := make([]*grades.Student, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		name := strings.TrimSpace(key)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		students = append(students, grades.NewStudent(name, doc[key].Grades...))
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}
