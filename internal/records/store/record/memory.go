package record

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"precinct/internal/records/models"
	"precinct/pkg/platform/sentinel"
)

// InMemory keeps records in insertion order, matching the Postgres seq ordering.
type InMemory struct {
	mu      sync.RWMutex
	order   []string
	records map[string]*models.Record
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]*models.Record)}
}

func (s *InMemory) List(_ context.Context) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Record, 0, len(s.order))
	for _, id := range s.order {
		rec := *s.records[id]
		out = append(out, &rec)
	}
	return out, nil
}

func (s *InMemory) ListByPrefix(_ context.Context, prefix string) ([]*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Record, 0)
	for _, id := range s.order {
		if strings.HasPrefix(id, prefix) {
			rec := *s.records[id]
			out = append(out, &rec)
		}
	}
	return out, nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *InMemory) Create(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("record %s: %w", rec.ID, sentinel.ErrAlreadyUsed)
	}
	cp := *rec
	s.records[rec.ID] = &cp
	s.order = append(s.order, rec.ID)
	return nil
}

// Update replaces the mutable fields and keeps CreatedAt.
func (s *InMemory) Update(_ context.Context, rec *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[rec.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	existing.Name = rec.Name
	existing.Sex = rec.Sex
	existing.NationalID = rec.NationalID
	existing.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *InMemory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
