package bank

import "strings"

// FilterSpec restricts the visible bank. For every field an empty set means
// "no restriction"; all populated fields must match (AND).
type FilterSpec struct {
	Courses []string `json:"courses,omitempty"`
	Kinds   []string `json:"kinds,omitempty"` // "static" / "dynamic"
	QTypes  []string `json:"qtypes,omitempty"`
	Topics  []string `json:"topics,omitempty"`
	Search  string   `json:"search,omitempty"`
}

// Matches reports whether q satisfies every populated field of spec. Pure.
func Matches(q QuestionDefinition, spec FilterSpec) bool {
	// A question with no courses is unrestricted by course filters.
	if len(spec.Courses) > 0 && len(q.Courses) > 0 && !intersects(q.Courses, spec.Courses) {
		return false
	}
	if len(spec.Kinds) > 0 && !contains(spec.Kinds, q.Kind()) {
		return false
	}
	if len(spec.QTypes) > 0 && !intersects(q.QTypes, spec.QTypes) {
		return false
	}
	if len(spec.Topics) > 0 && !intersects(topicsOf(q), spec.Topics) {
		return false
	}
	if s := strings.TrimSpace(spec.Search); s != "" {
		if !strings.Contains(strings.ToLower(haystack(q)), strings.ToLower(s)) {
			return false
		}
	}
	return true
}

// Filtered returns the matching questions in bank order.
func (s *Store) Filtered(spec FilterSpec) []QuestionDefinition {
	var out []QuestionDefinition
	for _, q := range s.defs {
		if Matches(q, spec) {
			out = append(out, q)
		}
	}
	return out
}

func topicsOf(q QuestionDefinition) []string {
	if len(q.Topics) == 0 {
		return []string{UntitledTopic}
	}
	return q.Topics
}

// haystack joins every searchable string of the question: text, topics,
// types, courses, id, and all variant texts.
func haystack(q QuestionDefinition) string {
	parts := []string{q.Text, q.ID}
	parts = append(parts, q.Topics...)
	parts = append(parts, q.QTypes...)
	parts = append(parts, q.Courses...)
	for _, v := range q.Variants {
		parts = append(parts, v.Text)
	}
	return strings.Join(parts, "\n")
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}
