package assemble

import (
	"math/rand"
	"sync"
	"time"
)

// Source serializes access to one shared math/rand generator. Generation
// functions take an explicit *rand.Rand so tests can fix the seed; Source is
// the server-side owner of that generator.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource seeds the generator. A zero seed means "seed from the clock".
func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Do runs f with exclusive use of the generator.
func (s *Source) Do(f func(*rand.Rand)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.rng)
}
