package bank

import "sort"

// Store is an immutable in-memory index over the loaded bank, keyed by
// question id. It is safe for concurrent readers and never mutated after
// construction, so sessions may share one Store.
type Store struct {
	defs []QuestionDefinition
	byID map[string]int
}

// NewStore indexes the given definitions. On duplicate ids the first
// occurrence wins; later ones are dropped from the index and from All.
func NewStore(defs []QuestionDefinition) *Store {
	s := &Store{byID: make(map[string]int, len(defs))}
	for _, d := range defs {
		if _, dup := s.byID[d.ID]; dup {
			continue
		}
		s.byID[d.ID] = len(s.defs)
		s.defs = append(s.defs, d)
	}
	return s
}

// Lookup returns the definition for id. Unknown ids fail safe: callers skip
// the affected item rather than aborting.
func (s *Store) Lookup(id string) (QuestionDefinition, bool) {
	i, ok := s.byID[id]
	if !ok {
		return QuestionDefinition{}, false
	}
	return s.defs[i], true
}

// All returns the bank in load order.
func (s *Store) All() []QuestionDefinition {
	out := make([]QuestionDefinition, len(s.defs))
	copy(out, s.defs)
	return out
}

// Len reports the number of indexed questions.
func (s *Store) Len() int { return len(s.defs) }

// Topics enumerates distinct topic labels, sorted. Questions with no topic
// contribute the "Untitled" label.
func (s *Store) Topics() []string {
	set := map[string]struct{}{}
	for _, d := range s.defs {
		if len(d.Topics) == 0 {
			set[UntitledTopic] = struct{}{}
			continue
		}
		for _, t := range d.Topics {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Courses enumerates distinct course names, sorted.
func (s *Store) Courses() []string {
	set := map[string]struct{}{}
	for _, d := range s.defs {
		for _, c := range d.Courses {
			set[c] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// QTypes enumerates distinct question type labels, sorted.
func (s *Store) QTypes() []string {
	set := map[string]struct{}{}
	for _, d := range s.defs {
		for _, t := range d.QTypes {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
