package redis

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precinct/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := New(context.Background(), config.RedisOptions{}, nil)
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New(context.Background(), config.RedisOptions{URL: "://nope"}, nil)
	assert.Error(t, err)
}

func TestRecordPoolStatsOnIdleClient(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPoolMetrics(reg)
	client := Wrap(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}), metrics)
	defer client.Close()

	client.RecordPoolStats()
	client.RecordPoolStats()

	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.TotalConns))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Hits))
}

func TestRunPoolStatsStopsOnCancel(t *testing.T) {
	client := Wrap(goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"}), NewPoolMetrics(prometheus.NewRegistry()))
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.RunPoolStats(ctx, time.Millisecond) }()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunPoolStats did not return after cancel")
	}
}
