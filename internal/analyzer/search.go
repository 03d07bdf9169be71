package analyzer

import "strings"

// Search returns the names containing query as a case-insensitive substring,
// in display order. An empty query matches every name; callers that want
// "empty means show all" can rely on that, the rest should not call Search
// with an empty query.
func (a *Analyzer) Search(query string) []string {
	q := strings.ToLower(query)
	var matches []string
	for name := range a.students {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	sortNames(matches)
	return matches
}
