package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"precinct/internal/platform/kafka/producer"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/audit"
)

type captureProducer struct {
	messages []*producer.Message
	err      error
}

func (c *captureProducer) Produce(_ context.Context, msg *producer.Message) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, msg)
	return nil
}

func (c *captureProducer) Close() error { return nil }

type blockingSink struct {
	release chan struct{}
}

func (b *blockingSink) Append(context.Context, audit.Event) error {
	<-b.release
	return nil
}

func TestSyncPublisherStampsTimestamp(t *testing.T) {
	sink := NewMemorySink()
	p := NewPublisher(sink)

	require.NoError(t, p.Emit(context.Background(), audit.Event{Action: "record_created", Subject: "c-1"}))

	events := sink.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestAsyncPublisherDrainsOnClose(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	sink := NewMemorySink()
	p := NewPublisher(sink, WithAsyncBuffer(8))

	for _, id := range []string{"c-1", "c-2", "c-3"} {
		require.NoError(t, p.Emit(context.Background(), audit.Event{Action: "record_deleted", Subject: id}))
	}
	p.Close()
	p.Close()

	assert.Len(t, sink.Events(), 3)
}

func TestAsyncPublisherBufferFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	p := NewPublisher(sink, WithAsyncBuffer(1))

	// At most two events fit: one held by the blocked worker, one buffered.
	var rejected int
	for i := 0; i < 3; i++ {
		if err := p.Emit(context.Background(), audit.Event{Action: "record_created"}); err != nil {
			assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
			rejected++
		}
	}
	assert.GreaterOrEqual(t, rejected, 1)

	close(sink.release)
	p.Close()
}

func TestKafkaSink(t *testing.T) {
	prod := &captureProducer{}
	sink := NewKafkaSink(prod, "precinct.records")

	err := sink.Append(context.Background(), audit.Event{
		Action:     "record_updated",
		Subject:    "c-7",
		Attributes: map[string]string{"name": "Bob"},
	})
	require.NoError(t, err)
	require.Len(t, prod.messages, 1)

	msg := prod.messages[0]
	assert.Equal(t, "precinct.records", msg.Topic)
	assert.Equal(t, []byte("c-7"), msg.Key)
	assert.Equal(t, "record_updated", msg.Headers["event_type"])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "Bob", decoded.Attributes["name"])
}

func TestKafkaSinkPropagatesError(t *testing.T) {
	sink := NewKafkaSink(&captureProducer{err: errors.New("broker down")}, "t")
	assert.EqualError(t, sink.Append(context.Background(), audit.Event{}), "broker down")
}
