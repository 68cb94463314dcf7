package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
)

// Publisher hands events to a Sink, either inline or through a buffered
// channel drained by one goroutine.
type Publisher struct {
	sink   audit.Sink
	events chan audit.Event
	wg     sync.WaitGroup
	logger *slog.Logger
	async  bool
	closed sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events; Emit fails fast when the queue is full.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(sink audit.Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{sink: sink}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.sink.Append(ctx, event); err != nil && p.logger != nil {
			p.logger.Error("failed to forward audit event",
				"error", err,
				"action", event.Action,
				"subject", event.Subject,
			)
		}
		cancel()
	}
}

// Close drains pending events. Emit must not be called afterwards.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.async && p.events != nil {
			close(p.events)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if !p.async {
		return p.sink.Append(ctx, event)
	}
	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.logger != nil {
			p.logger.Warn("audit buffer full, event dropped",
				"action", event.Action,
				"subject", event.Subject,
			)
		}
		return dErrors.New(dErrors.CodeUnavailable, "audit buffer full")
	}
}
