package cart

import (
	"context"
	"sync"
	"time"
)

// Store keeps one cart per browsing session so the cart survives page
// reloads. Sessions are process-local with TTL eviction: the cart is never
// committed state, it exists only until checkout or logout.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]*storeEntry
}

type storeEntry struct {
	cart     *Cart
	lastSeen time.Time
}

// NewStore creates a session cart store. Sessions idle longer than ttl are
// evicted by the cleanup loop.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*storeEntry),
	}
}

// Get returns the cart for the session, creating an empty one on first use.
// Every access refreshes the session's TTL.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &storeEntry{cart: New()}
		s.entries[sessionID] = e
	}
	e.lastSeen = time.Now()
	return e.cart
}

// Delete destroys the session's cart (successful checkout or logout).
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.entries, sessionID)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) evictExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if now.Sub(e.lastSeen) >= s.ttl {
			delete(s.entries, id)
		}
	}
}

// StartCleanup launches a background goroutine that evicts idle sessions at
// half the TTL interval. It stops when ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.evictExpired(now)
			}
		}
	}()
}
