package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	officermetrics "precinct/internal/officers/metrics"
	"precinct/internal/officers/models"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/requestcontext"
	"precinct/pkg/secrets"
)

const invalidCredentials = "Invalid Police Name or Password"

type Store interface {
	Create(ctx context.Context, o *models.Officer) error
	FindByID(ctx context.Context, policeID string) (*models.Officer, error)
	FindByName(ctx context.Context, policeName string) (*models.Officer, error)
}

// LockoutStore counts failed logins per key.
type LockoutStore interface {
	RecordFailure(ctx context.Context, key string) (int, error)
	Failures(ctx context.Context, key string) (int, error)
	Clear(ctx context.Context, key string) error
}

type Service struct {
	store       Store
	lockout     LockoutStore
	maxFailures int
	hash        func(string) (string, error)
	logger      *slog.Logger
	auditor     *audit.Logger
	metrics     *officermetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditLogger(auditor *audit.Logger) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithMetrics(m *officermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLockout rejects logins for a name once maxFailures failures are
// recorded. maxFailures <= 0 disables lockout.
func WithLockout(store LockoutStore, maxFailures int) Option {
	return func(s *Service) {
		s.lockout = store
		s.maxFailures = maxFailures
	}
}

// WithHasher replaces bcrypt at the default cost; tests pass a low-cost hasher.
func WithHasher(hash func(string) (string, error)) Option {
	return func(s *Service) {
		s.hash = hash
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("officer store is required")
	}
	s := &Service{store: store, hash: secrets.Hash}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Register stores a new officer with a hashed password.
func (s *Service) Register(ctx context.Context, reg models.Registration) (*models.Officer, error) {
	officer, err := s.register(ctx, reg)
	if err != nil {
		s.metrics.IncRegistration(string(dErrors.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncRegistration("ok")
	return officer, nil
}

func (s *Service) register(ctx context.Context, reg models.Registration) (*models.Officer, error) {
	if !reg.Complete() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "All fields are required")
	}
	// Checked before hashing; Create still catches concurrent registrations.
	switch _, err := s.store.FindByID(ctx, reg.PoliceID); {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeBadRequest, "Police ID already exists")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register officer")
	}
	hash, err := s.hash(reg.Password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	officer, err := models.NewOfficer(reg, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, officer); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeBadRequest, "Police ID already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register officer")
	}
	s.auditor.Log(ctx, audit.EventOfficerRegistered, officer.PoliceID,
		"police_name", officer.PoliceName,
		"department", officer.Department,
	)
	return officer, nil
}

// Login checks the password of the first officer registered under
// policeName. Unknown names and wrong passwords get the same error.
func (s *Service) Login(ctx context.Context, policeName, password string) (*models.Officer, error) {
	if strings.TrimSpace(policeName) == "" || password == "" {
		s.metrics.IncLogin("bad_request")
		return nil, dErrors.New(dErrors.CodeBadRequest, "Police Name and Password are required")
	}
	key := models.LockoutKey(policeName)

	if err := s.checkLockout(ctx, key, policeName); err != nil {
		return nil, err
	}

	officer, err := s.store.FindByName(ctx, policeName)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncLogin("error")
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up officer")
		}
		return nil, s.fail(ctx, key, policeName, "unknown_name")
	}
	if err := secrets.Verify(password, officer.PasswordHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.IncLogin("error")
			return nil, err
		}
		return nil, s.fail(ctx, key, policeName, "bad_password")
	}

	if s.lockout != nil {
		if err := s.lockout.Clear(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to clear login failures",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	s.metrics.IncLogin("ok")
	s.auditor.Log(ctx, audit.EventLoginSucceeded, officer.PoliceID, "police_name", officer.PoliceName)
	return officer, nil
}

func (s *Service) checkLockout(ctx context.Context, key, policeName string) error {
	if s.lockout == nil || s.maxFailures <= 0 {
		return nil
	}
	failures, err := s.lockout.Failures(ctx, key)
	if err != nil {
		// fail open
		s.logger.WarnContext(ctx, "failed to read login failures",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	}
	if failures >= s.maxFailures {
		s.metrics.IncLogin("locked")
		s.metrics.IncLockout()
		s.auditor.Log(ctx, audit.EventLoginLocked, policeName, "failures", failures)
		return dErrors.New(dErrors.CodeTooManyTries, "Too many failed login attempts, try again later")
	}
	return nil
}

func (s *Service) fail(ctx context.Context, key, policeName, reason string) error {
	s.metrics.IncLogin("invalid")
	if s.lockout != nil {
		if _, err := s.lockout.RecordFailure(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to record login failure",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	s.auditor.Log(ctx, audit.EventLoginFailed, policeName, "reason", reason)
	return dErrors.New(dErrors.CodeUnauthorized, invalidCredentials)
}
