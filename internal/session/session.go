// Package session owns the per-user test drafts. Each session holds exactly
// one instance sequence; the shared question bank is read-only, so only the
// sequence needs ownership.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/testgen-lite/testgen/internal/assemble"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string            `json:"id"`
	Owner     string            `json:"owner"`
	Instances assemble.Sequence `json:"instances"`
	CreatedAt int64             `json:"created_at"`
	UpdatedAt int64             `json:"updated_at"`
}

type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	ListByOwner(ctx context.Context, owner string) ([]Session, error)
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemoryStore keeps sessions in process memory. Suitable for tests and
// single-node runs without a DSN.
func NewInMemoryStore() Store {
	return &memoryStore{sessions: map[string]Session{}}
}

func (m *memoryStore) Put(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.CreatedAt == 0 {
		s.CreatedAt = time.Now().Unix()
	}
	s.UpdatedAt = time.Now().Unix()
	// Copy the sequence so the caller's slice stays independent.
	seq := make(assemble.Sequence, len(s.Instances))
	copy(seq, s.Instances)
	s.Instances = seq
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	seq := make(assemble.Sequence, len(s.Instances))
	copy(seq, s.Instances)
	s.Instances = seq
	return s, nil
}

func (m *memoryStore) ListByOwner(_ context.Context, owner string) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Session
	for _, s := range m.sessions {
		if s.Owner == owner {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
