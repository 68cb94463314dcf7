package officer

import (
	"context"
	"fmt"
	"sync"

	"precinct/internal/officers/models"
	"precinct/pkg/platform/sentinel"
)

// InMemory holds officers keyed by police ID. FindByName returns the
// earliest registration with that name.
type InMemory struct {
	mu       sync.RWMutex
	order    []string
	officers map[string]*models.Officer
}

func NewInMemory() *InMemory {
	return &InMemory{officers: make(map[string]*models.Officer)}
}

func (s *InMemory) Create(_ context.Context, o *models.Officer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.officers[o.PoliceID]; exists {
		return fmt.Errorf("officer %s: %w", o.PoliceID, sentinel.ErrAlreadyUsed)
	}
	cp := *o
	s.officers[o.PoliceID] = &cp
	s.order = append(s.order, o.PoliceID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, policeID string) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.officers[policeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *InMemory) FindByName(_ context.Context, policeName string) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if o := s.officers[id]; o.PoliceName == policeName {
			cp := *o
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
