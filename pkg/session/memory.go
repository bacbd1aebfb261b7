package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store with TTL-based expiry.
// Records are cloned on the way in and out, so callers never share state with
// the map; a Get while another goroutine saves the same session is safe.
// Suitable for single-node deployments; distributed deployments use
// RedisStore so any node can pick up a session.
type MemoryStore struct {
	sessions map[string]*State
	mu       sync.RWMutex

	maxAge        time.Duration
	sweepInterval time.Duration

	stopSweep chan struct{}
	closeOnce sync.Once
}

// MemoryOption is a functional option for configuring MemoryStore.
type MemoryOption func(*MemoryStore)

// WithTTL sets the maximum idle age for sessions before expiry.
func WithTTL(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.maxAge = d
	}
}

// WithSweepInterval sets how often the expiry sweep runs.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(s *MemoryStore) {
		s.sweepInterval = d
	}
}

// NewMemoryStore creates an in-memory session store and starts its sweeper.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions:      make(map[string]*State),
		maxAge:        1 * time.Hour,
		sweepInterval: 5 * time.Minute,
		stopSweep:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.sweepLoop()

	return s
}

// Get retrieves a session. Expired records are treated as missing; the
// actual removal happens in the sweep loop.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if time.Since(state.LastSeenAt) > s.maxAge {
		return nil, ErrNotFound
	}
	return state.Clone(), nil
}

// Save creates or replaces a session record.
func (s *MemoryStore) Save(_ context.Context, state *State) error {
	if state == nil {
		return fmt.Errorf("session: state is nil")
	}
	if state.SessionID == "" {
		return fmt.Errorf("session: session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.LastSeenAt = now

	s.sessions[state.SessionID] = state.Clone()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

// List returns all non-expired sessions.
func (s *MemoryStore) List(_ context.Context) ([]*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make([]*State, 0, len(s.sessions))
	for _, state := range s.sessions {
		if time.Since(state.LastSeenAt) > s.maxAge {
			continue
		}
		states = append(states, state.Clone())
	}
	return states, nil
}

// Close stops the sweeper goroutine.
func (s *MemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stopSweep)
	})
}

func (s *MemoryStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, state := range s.sessions {
		if now.Sub(state.LastSeenAt) > s.maxAge {
			delete(s.sessions, id)
		}
	}
}
