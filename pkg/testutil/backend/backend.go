// Package backend runs the full HTTP stack on in-memory stores for tests.
package backend

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"precinct/contracts/records"
	officerhandler "precinct/internal/officers/handler"
	officermetrics "precinct/internal/officers/metrics"
	"precinct/internal/officers/models"
	officerservice "precinct/internal/officers/service"
	"precinct/internal/officers/store/lockout"
	"precinct/internal/officers/store/officer"
	"precinct/internal/platform/health"
	"precinct/internal/platform/logger"
	recordhandler "precinct/internal/records/handler"
	recordmetrics "precinct/internal/records/metrics"
	recordservice "precinct/internal/records/service"
	"precinct/internal/records/store/record"
	httptransport "precinct/internal/transport/http"
	"precinct/pkg/platform/audit"
	"precinct/pkg/platform/audit/publisher"
	request "precinct/pkg/platform/middleware/request"
	"precinct/pkg/secrets"
)

type Backend struct {
	Server   *httptest.Server
	Records  *record.InMemory
	Officers *officer.InMemory
	Audit    *publisher.MemorySink
	Registry *prometheus.Registry

	recordService  *recordservice.Service
	officerService *officerservice.Service
}

// New starts a server and closes it when t ends.
func New(t *testing.T) *Backend {
	t.Helper()

	log := logger.Discard()
	reg := prometheus.NewRegistry()
	sink := publisher.NewMemorySink()
	auditor := audit.NewLogger(log, publisher.NewPublisher(sink))

	b := &Backend{
		Records:  record.NewInMemory(),
		Officers: officer.NewInMemory(),
		Audit:    sink,
		Registry: reg,
	}

	var err error
	b.recordService, err = recordservice.New(b.Records,
		recordservice.WithLogger(log),
		recordservice.WithAuditLogger(auditor),
		recordservice.WithMetrics(recordmetrics.New(reg)),
	)
	if err != nil {
		t.Fatalf("record service: %v", err)
	}
	b.officerService, err = officerservice.New(b.Officers,
		officerservice.WithLogger(log),
		officerservice.WithAuditLogger(auditor),
		officerservice.WithMetrics(officermetrics.New(reg)),
		officerservice.WithLockout(lockout.NewInMemory(time.Minute), 5),
		officerservice.WithHasher(func(pw string) (string, error) {
			return secrets.HashWithCost(pw, bcrypt.MinCost)
		}),
	)
	if err != nil {
		t.Fatalf("officer service: %v", err)
	}

	router := httptransport.NewRouter(httptransport.Config{
		CORSOrigins:    []string{"*"},
		RequestTimeout: 5 * time.Second,
		MaxBodyBytes:   1 << 20,
		Gatherer:       reg,
		Metrics:        request.NewMetrics(reg),
	}, log,
		health.New("test"),
		recordhandler.New(b.recordService, log),
		officerhandler.New(b.officerService, log),
	)

	b.Server = httptest.NewServer(router)
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// Seed inserts records directly through the service.
func (b *Backend) Seed(t *testing.T, recs ...records.Record) {
	t.Helper()
	for _, r := range recs {
		_, _, err := b.recordService.Upsert(context.Background(), recordservice.UpsertCommand{
			ID:         r.ID,
			Name:       r.Name,
			Sex:        string(r.Sex),
			NationalID: r.NationalID,
			Create:     true,
		})
		if err != nil {
			t.Fatalf("seed %s: %v", r.ID, err)
		}
	}
}

// RegisterOfficer stores an officer able to log in with req.Password.
func (b *Backend) RegisterOfficer(t *testing.T, req records.RegisterRequest) {
	t.Helper()
	_, err := b.officerService.Register(context.Background(), models.Registration{
		PoliceID:      req.PoliceID,
		PoliceName:    req.PoliceName,
		Department:    req.Department,
		PoliceAddress: req.PoliceAddress,
		Designation:   req.Designation,
		Password:      req.Password,
	})
	if err != nil {
		t.Fatalf("register %s: %v", req.PoliceID, err)
	}
}

// Snapshot lists every stored record in order.
func (b *Backend) Snapshot(t *testing.T) []records.Record {
	t.Helper()
	recs, err := b.Records.List(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	out := make([]records.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, records.Record{ID: r.ID, Name: r.Name, Sex: records.Sex(r.Sex), NationalID: r.NationalID})
	}
	return out
}
