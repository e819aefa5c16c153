// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Games are not persisted anywhere; this store owns live sessions for as long
// as the process runs.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions idle longer than the TTL are evicted by Sweep / Run, and their
//     timers are stopped on the way out.
//   - Errors are returned for missing game IDs on Get() and Delete().

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("not found")

// Store defines the ownership interface for live game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is not found.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete closes and removes a session.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int

	// Sweep evicts sessions idle since before now-TTL and returns how many
	// were removed.
	Sweep(now time.Time) int

	// Run sweeps every interval until ctx is done.
	Run(ctx context.Context, every time.Duration)

	// Close closes every session and empties the store.
	Close() error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex             // guards sessions map
	sessions map[string]*game.Session // keyed by Session.ID
	ttl      time.Duration            // 0 disables eviction
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{sessions: make(map[string]*game.Session), ttl: ttl}
}

// Save adds or updates the session in the map. A replaced session is closed.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	old := m.sessions[s.ID]
	m.sessions[s.ID] = s
	m.mu.Unlock()
	if old != nil && old != s {
		old.Close()
	}
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	var stale []*game.Session
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.IdleSince().Before(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
		log.Debug().Str("gameId", s.ID).Str("state", s.State().String()).Msg("evicted idle game")
	}
	return len(stale)
}

func (m *memory) Run(ctx context.Context, every time.Duration) {
	if every <= 0 || m.ttl <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := m.Sweep(now); n > 0 {
				log.Info().Int("evicted", n).Int("live", m.Len()).Msg("session sweep")
			}
		}
	}
}

func (m *memory) Close() error {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*game.Session)
	m.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
	return nil
}
