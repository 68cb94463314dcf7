// Package session tracks the logged-in officer of a console process.
package session

import (
	"context"
	"errors"
	"sync"

	"precinct/contracts/records"
)

var ErrNotLoggedIn = errors.New("not logged in")

type Officer struct {
	PoliceID   string
	PoliceName string
}

// Authenticator is satisfied by client.Client.
type Authenticator interface {
	Login(ctx context.Context, policeName, password string) (*records.LoginResponse, error)
}

// Session is created once and handed to the views that need it. It is not a
// security boundary; the backend does not check it.
type Session struct {
	mu      sync.RWMutex
	officer *Officer
}

func New() *Session {
	return &Session{}
}

// Init marks the session active for officer.
func (s *Session) Init(officer Officer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.officer = &officer
}

// Teardown ends the session. It is safe to call on an inactive session.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.officer = nil
}

func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.officer != nil
}

func (s *Session) Officer() (Officer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.officer == nil {
		return Officer{}, false
	}
	return *s.officer, true
}

// Login authenticates and, on success, initializes the session.
func (s *Session) Login(ctx context.Context, auth Authenticator, policeName, password string) (Officer, error) {
	resp, err := auth.Login(ctx, policeName, password)
	if err != nil {
		return Officer{}, err
	}
	officer := Officer{PoliceID: resp.PoliceID, PoliceName: policeName}
	s.Init(officer)
	return officer, nil
}

// Require returns ErrNotLoggedIn unless the session is active.
func (s *Session) Require() error {
	if s == nil || !s.Active() {
		return ErrNotLoggedIn
	}
	return nil
}
