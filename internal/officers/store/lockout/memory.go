// Package lockout counts failed logins per key inside a sliding-start window.
// The window opens at the first failure and the counter resets once it
// elapses.
package lockout

import (
	"context"
	"sync"
	"time"

	"precinct/pkg/requestcontext"
)

type entry struct {
	count     int
	expiresAt time.Time
}

type InMemory struct {
	mu      sync.RWMutex
	window  time.Duration
	entries map[string]*entry
}

func NewInMemory(window time.Duration) *InMemory {
	return &InMemory{window: window, entries: make(map[string]*entry)}
}

// RecordFailure increments the counter for key and returns the new count.
func (s *InMemory) RecordFailure(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := requestcontext.Now(ctx)
	e, ok := s.entries[key]
	if !ok || !now.Before(e.expiresAt) {
		e = &entry{expiresAt: now.Add(s.window)}
		s.entries[key] = e
	}
	e.count++
	return e.count, nil
}

func (s *InMemory) Failures(ctx context.Context, key string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !requestcontext.Now(ctx).Before(e.expiresAt) {
		return 0, nil
	}
	return e.count, nil
}

func (s *InMemory) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
