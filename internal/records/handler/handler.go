package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"precinct/contracts/records"
	"precinct/internal/records/models"
	"precinct/internal/records/service"
	dErrors "precinct/pkg/domain-errors"
	"precinct/pkg/platform/httputil"
	"precinct/pkg/requestcontext"
)

// Service is the record use-case surface the handler depends on.
type Service interface {
	List(ctx context.Context, query string) ([]*models.Record, error)
	Upsert(ctx context.Context, cmd service.UpsertCommand) (*models.Record, models.Outcome, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get(records.PathList, h.HandleList)
	r.Post(records.PathUpsert, h.HandleUpsert)
	r.Delete(records.PathDelete, h.HandleDelete)
}

// HandleList serves GET /getRecords?query=<prefix|"null">.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	query := r.URL.Query().Get("query")

	recs, err := h.service.List(ctx, query)
	if err != nil {
		h.logger.ErrorContext(ctx, "list records failed", "error", err, "request_id", requestID, "query", query)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toListResponse(recs))
}

// HandleUpsert serves POST /addRecord.
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UpsertRecordRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	_, outcome, err := h.service.Upsert(ctx, req.toCommand())
	if err != nil {
		h.logger.ErrorContext(ctx, "upsert record failed",
			"error", err,
			"request_id", requestID,
			"c_id", req.Data.ID,
			"create", req.Create,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.DebugContext(ctx, "record upserted", "c_id", req.Data.ID, "outcome", string(outcome), "request_id", requestID)
	httputil.WriteJSON(w, http.StatusOK, statusOK())
}

// HandleDelete serves DELETE /deleteRecord?c_id=<id>.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id := r.URL.Query().Get("c_id")
	if id == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "c_id is required"))
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "delete record failed", "error", err, "request_id", requestID, "c_id", id)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusOK())
}
