package assemble

import (
	"fmt"
	"math/rand"

	"github.com/testgen-lite/testgen/internal/bank"
)

// Sequence is the ordered list of instances that makes up a test. There is
// no separate test entity; the sequence is the test. A sequence belongs to
// exactly one session and is never shared.
type Sequence []Instance

// Append creates one instance per id, in order, drawing fresh randomness
// for each. Unknown ids are skipped silently; a definition whose parameter
// generation fails is skipped too, with its error reported, so one bad
// entry never blocks the rest of the batch.
func (s *Sequence) Append(store *bank.Store, ids []string, rng *rand.Rand) []error {
	var errs []error
	for _, id := range ids {
		q, ok := store.Lookup(id)
		if !ok {
			continue
		}
		inst, err := Generate(q, rng)
		if err != nil {
			errs = append(errs, fmt.Errorf("add %s: %w", id, err))
			continue
		}
		*s = append(*s, inst)
	}
	return errs
}

// MoveUp swaps the instance at i with its predecessor. No-op at the top or
// out of range.
func (s *Sequence) MoveUp(i int) {
	if i <= 0 || i >= len(*s) {
		return
	}
	(*s)[i-1], (*s)[i] = (*s)[i], (*s)[i-1]
}

// MoveDown swaps the instance at i with its successor. No-op at the bottom
// or out of range.
func (s *Sequence) MoveDown(i int) {
	if i < 0 || i >= len(*s)-1 {
		return
	}
	(*s)[i+1], (*s)[i] = (*s)[i], (*s)[i+1]
}

// Remove deletes the instance at i. Out-of-range indices are a no-op.
func (s *Sequence) Remove(i int) {
	if i < 0 || i >= len(*s) {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}

// Reset clears the sequence.
func (s *Sequence) Reset() { *s = (*s)[:0] }

// At returns the instance at i.
func (s Sequence) At(i int) (Instance, bool) {
	if i < 0 || i >= len(s) {
		return Instance{}, false
	}
	return s[i], true
}
