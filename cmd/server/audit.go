package main

import (
	"log/slog"

	"precinct/internal/platform/config"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/audit/publisher"
)

const auditBufferSize = 256

// buildAuditor logs audit events and, when brokers are configured, forwards
// them to the records topic through an async buffer.
func buildAuditor(cfg config.Server, log *slog.Logger, in *infra) *audit.Logger {
	if len(cfg.Kafka.Brokers) == 0 {
		return audit.NewLogger(log, nil)
	}
	sink := publisher.NewKafkaSink(in.producer, cfg.Kafka.RecordsTopic)
	pub := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(auditBufferSize),
		publisher.WithPublisherLogger(log),
	)
	in.closers = append(in.closers, pub.Close)
	return audit.NewLogger(log, pub)
}
