// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Game sessions are ephemeral: nothing here survives a process restart.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via a mutex; Update runs the mutation under the lock,
//     so a session is never mutated by two requests at once.
//   - Every Save/Update refreshes the session's last-use time; Prune drops
//     sessions idle for longer than a given duration.
//   - ErrNotFound is returned for unknown IDs.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hamomel/queens/server/internal/game"
)

var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Update applies fn to the session while holding exclusive access.
	// The error from fn is returned unchanged.
	Update(ctx context.Context, id string, fn func(s *game.Session) error) error

	// Delete removes a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error

	// Prune removes sessions not used for longer than idle and returns how many.
	Prune(ctx context.Context, idle time.Duration) int
}

type entry struct {
	session *game.Session
	used    time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.Mutex        // guards sessions and every session's state
	sessions map[string]*entry // keyed by Session.ID
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{session: s, used: m.now()}
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(s *game.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	e.used = m.now()
	return fn(e.session)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-idle)
	n := 0
	for id, e := range m.sessions {
		if e.used.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
