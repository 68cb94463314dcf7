package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	officerhandler "precinct/internal/officers/handler"
	officermetrics "precinct/internal/officers/metrics"
	officerservice "precinct/internal/officers/service"
	"precinct/internal/platform/config"
	"precinct/internal/platform/health"
	"precinct/internal/platform/httpserver"
	"precinct/internal/platform/logger"
	recordhandler "precinct/internal/records/handler"
	recordmetrics "precinct/internal/records/metrics"
	recordservice "precinct/internal/records/service"
	httptransport "precinct/internal/transport/http"
	request "precinct/pkg/platform/middleware/request"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "precinct server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer(config.DefaultEnvFiles...)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing precinct server",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	healthHandler := health.New(cfg.Environment)

	backends, err := buildInfra(ctx, cfg, log, reg, healthHandler)
	if err != nil {
		return err
	}
	defer backends.Close(log)

	auditor := buildAuditor(cfg, log, backends)

	records, err := recordservice.New(backends.records,
		recordservice.WithLogger(log),
		recordservice.WithAuditLogger(auditor),
		recordservice.WithMetrics(recordmetrics.New(reg)),
	)
	if err != nil {
		return fmt.Errorf("init record service: %w", err)
	}

	officers, err := officerservice.New(backends.officers,
		officerservice.WithLogger(log),
		officerservice.WithAuditLogger(auditor),
		officerservice.WithMetrics(officermetrics.New(reg)),
		officerservice.WithLockout(backends.lockout, cfg.Lockout.MaxFailures),
	)
	if err != nil {
		return fmt.Errorf("init officer service: %w", err)
	}

	router := httptransport.NewRouter(httptransport.Config{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Gatherer:       reg,
		Metrics:        request.NewMetrics(reg),
	}, log,
		healthHandler,
		recordhandler.New(records, log),
		officerhandler.New(officers, log),
	)

	srv := httpserver.New(cfg.Addr, router, cfg.ShutdownTimeout, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	if backends.redis != nil {
		g.Go(func() error {
			return backends.redis.RunPoolStats(gctx, cfg.Redis.StatsInterval)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
