package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"precinct/internal/platform/middleware"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/httputil"
	request "precinct/pkg/platform/middleware/request"
)

// Banner is the plain-text body served at "/".
const Banner = "API is running. Welcome to Police App!"

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

type Config struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Metrics  *request.Metrics
}

// NewRouter wires the middleware stack and mounts every registrar.
func NewRouter(cfg Config, logger *slog.Logger, registrars ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(request.RequestTime)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(request.Latency(cfg.Metrics))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}
	if cfg.MaxBodyBytes > 0 {
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	}
	r.Use(request.ContentTypeJSON)

	r.Get("/", handleIndex)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	for _, reg := range registrars {
		reg.Register(r)
	}

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)
	return r
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Banner)) //nolint:errcheck // headers already sent
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Not found"))
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{
		Error: "Method not allowed",
		Code:  "method_not_allowed",
	})
}
