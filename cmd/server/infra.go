package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	officerservice "precinct/internal/officers/service"
	"precinct/internal/officers/store/lockout"
	"precinct/internal/officers/store/officer"
	"precinct/internal/platform/config"
	"precinct/internal/platform/database"
	"precinct/internal/platform/health"
	"precinct/internal/platform/kafka"
	"precinct/internal/platform/kafka/producer"
	"precinct/internal/platform/redis"
	recordservice "precinct/internal/records/service"
	"precinct/internal/records/store/record"
	"precinct/migrations"
)

// infra holds the storage and messaging backends chosen from config. Each
// one falls back to an in-memory or no-op implementation when unconfigured.
type infra struct {
	db       *database.Pool
	redis    *redis.Client
	producer producer.Publisher
	// closers run before the backends close, e.g. to drain the audit buffer.
	closers []func()

	records  recordservice.Store
	officers officerservice.Store
	lockout  officerservice.LockoutStore
}

func buildInfra(ctx context.Context, cfg config.Server, log *slog.Logger, reg prometheus.Registerer, h *health.Handler) (*infra, error) {
	in := &infra{}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	pool, err := database.New(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if pool != nil {
		in.db = pool
		if cfg.Database.Migrate {
			if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
				in.Close(log)
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		in.records = record.NewPostgres(pool.DB())
		in.officers = officer.NewPostgres(pool.DB())
		h.RegisterCheck("postgres", pool.Health)
		log.Info("using postgres stores")
	} else {
		in.records = record.NewInMemory()
		in.officers = officer.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rc, err := redis.New(ctx, cfg.Redis, redis.NewPoolMetrics(reg))
	if err != nil {
		in.Close(log)
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc != nil {
		in.redis = rc
		in.lockout = lockout.NewRedis(rc.Client, cfg.Lockout.Window)
		h.RegisterCheck("redis", rc.Health)
		log.Info("using redis login lockout")
	} else {
		in.lockout = lockout.NewInMemory(cfg.Lockout.Window)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		pcfg := producer.DefaultConfig(cfg.Kafka.Brokers)
		pcfg.ClientID = cfg.Kafka.ClientID
		p, err := producer.New(pcfg, log)
		if err != nil {
			in.Close(log)
			return nil, fmt.Errorf("init kafka producer: %w", err)
		}
		in.producer = p
		h.RegisterCheck("kafka", kafka.NewHealthChecker(cfg.Kafka.Brokers).Check)
		log.Info("publishing audit events to kafka", "topic", cfg.Kafka.RecordsTopic)
	} else {
		in.producer = producer.NewNoopProducer()
	}

	return in, nil
}

// Close releases backends in reverse order of creation.
func (in *infra) Close(log *slog.Logger) {
	for _, c := range in.closers {
		c()
	}
	if in.producer != nil {
		if err := in.producer.Close(); err != nil {
			log.Error("failed to close kafka producer", "error", err)
		}
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			log.Error("failed to close redis", "error", err)
		}
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}
}
