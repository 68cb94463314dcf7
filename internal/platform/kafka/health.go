package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// HealthChecker dials the configured brokers over TCP.
type HealthChecker struct {
	brokers []string
	timeout time.Duration
}

func NewHealthChecker(brokers []string) *HealthChecker {
	return &HealthChecker{brokers: brokers, timeout: 2 * time.Second}
}

// Check succeeds as soon as one broker accepts a connection.
func (h *HealthChecker) Check(ctx context.Context) error {
	var lastErr error
	dialer := net.Dialer{Timeout: h.timeout}
	for _, broker := range h.brokers {
		broker = strings.TrimSpace(broker)
		if broker == "" {
			continue
		}
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		conn.Close() //nolint:errcheck // probe connection
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
	}
	return errors.New("no kafka brokers configured")
}

func (h *HealthChecker) Name() string {
	return "kafka"
}
