package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	recordmetrics "precinct/internal/records/metrics"
	"precinct/internal/records/models"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/sentinel"
	"precinct/pkg/requestcontext"
)

const tracerName = "precinct/records"

// Store is implemented by record.InMemory and record.PostgresStore.
type Store interface {
	List(ctx context.Context) ([]*models.Record, error)
	ListByPrefix(ctx context.Context, prefix string) ([]*models.Record, error)
	FindByID(ctx context.Context, id string) (*models.Record, error)
	Create(ctx context.Context, rec *models.Record) error
	Update(ctx context.Context, rec *models.Record) error
	Delete(ctx context.Context, id string) error
}

// Service implements list, upsert, and delete over a Store.
type Service struct {
	store   Store
	logger  *slog.Logger
	auditor *audit.Logger
	metrics *recordmetrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

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

func WithMetrics(m *recordmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s, nil
}

// UpsertCommand carries one record plus the create flag chosen by the client.
type UpsertCommand struct {
	ID         string
	Name       string
	Sex        string
	NationalID string
	Create     bool
}

// List returns every record when query is empty or "null", otherwise the
// records whose c_id starts with query. Order is insertion order.
func (s *Service) List(ctx context.Context, query string) (recs []*models.Record, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "records.List", trace.WithAttributes(attribute.String("records.query", query)))
	defer func() { s.finish(span, "list", start, err, outcomeOf(err)) }()

	if models.IsUnfiltered(query) {
		recs, err = s.store.List(ctx)
	} else {
		recs, err = s.store.ListByPrefix(ctx, query)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list records")
	}

	span.SetAttributes(attribute.Int("records.count", len(recs)))
	s.metrics.ObserveListSize(len(recs))
	return recs, nil
}

// Upsert inserts when cmd.Create is set and updates otherwise. Inserting an
// existing ID is a conflict; updating an unknown ID changes nothing and
// reports OutcomeSkipped.
func (s *Service) Upsert(ctx context.Context, cmd UpsertCommand) (rec *models.Record, outcome models.Outcome, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "records.Upsert", trace.WithAttributes(
		attribute.String("records.c_id", cmd.ID),
		attribute.Bool("records.create", cmd.Create),
	))
	defer func() {
		label := string(outcome)
		if err != nil {
			label = outcomeOf(err)
		}
		s.finish(span, "upsert", start, err, label)
	}()

	rec, err = models.NewRecord(cmd.ID, cmd.Name, cmd.Sex, cmd.NationalID, requestcontext.Now(ctx))
	if err != nil {
		return nil, "", err
	}

	if cmd.Create {
		if err := s.store.Create(ctx, rec); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return nil, "", dErrors.New(dErrors.CodeConflict, "Record with this c_id already exists")
			}
			return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create record")
		}
		s.auditor.Log(ctx, audit.EventRecordCreated, rec.ID, "name", rec.Name, "sex", string(rec.Sex))
		return rec, models.OutcomeCreated, nil
	}

	if err := s.store.Update(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.InfoContext(ctx, "update matched no record",
				"c_id", rec.ID,
				"request_id", requestcontext.RequestID(ctx),
			)
			return rec, models.OutcomeSkipped, nil
		}
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to update record")
	}
	s.auditor.Log(ctx, audit.EventRecordUpdated, rec.ID, "name", rec.Name, "sex", string(rec.Sex))
	return rec, models.OutcomeUpdated, nil
}

// Delete removes the record. Deleting an unknown ID succeeds.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	outcome := "deleted"
	ctx, span := s.tracer.Start(ctx, "records.Delete", trace.WithAttributes(attribute.String("records.c_id", id)))
	defer func() {
		if err != nil {
			outcome = outcomeOf(err)
		}
		s.finish(span, "delete", start, err, outcome)
	}()

	if id == "" {
		return dErrors.New(dErrors.CodeBadRequest, "c_id is required")
	}

	rec, err := s.store.FindByID(ctx, id)
	if err == nil {
		err = s.store.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			outcome = "skipped"
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete record")
	}
	s.auditor.Log(ctx, audit.EventRecordDeleted, id, "name", rec.Name)
	return nil
}

func (s *Service) finish(span trace.Span, operation string, start time.Time, err error, outcome string) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	s.metrics.ObserveOperation(operation, outcome, start)
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return string(dErrors.CodeOf(err))
}
