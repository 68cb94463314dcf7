package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"precinct/internal/platform/kafka/producer"
	"precinct/pkg/platform/audit"
)

// KafkaSink encodes events as JSON keyed by subject so every event for one
// record lands on the same partition.
type KafkaSink struct {
	producer producer.Publisher
	topic    string
}

func NewKafkaSink(p producer.Publisher, topic string) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic}
}

func (s *KafkaSink) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic:   s.topic,
		Key:     []byte(event.Subject),
		Value:   payload,
		Headers: map[string]string{"event_type": event.Action},
	})
}

// MemorySink keeps events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []audit.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Events() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
