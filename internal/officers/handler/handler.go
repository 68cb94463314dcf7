package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"precinct/contracts/records"
	"precinct/internal/officers/models"
	"precinct/pkg/platform/httputil"
	"precinct/pkg/requestcontext"
)

type Service interface {
	Register(ctx context.Context, reg models.Registration) (*models.Officer, error)
	Login(ctx context.Context, policeName, password string) (*models.Officer, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post(records.PathRegister, h.HandleRegister)
	r.Post(records.PathLogin, h.HandleLogin)
}

// HandleRegister serves POST /register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	officer, err := h.service.Register(ctx, req.toRegistration())
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"error", err,
			"request_id", requestID,
			"police_id", req.PoliceID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "officer registered", "police_id", officer.PoliceID, "request_id", requestID)
	httputil.WriteJSON(w, http.StatusCreated, registered())
}

// HandleLogin serves POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	officer, err := h.service.Login(ctx, req.PoliceName, req.Password)
	if err != nil {
		h.logger.WarnContext(ctx, "login failed",
			"error", err,
			"request_id", requestID,
			"police_name", req.PoliceName,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, loggedIn(officer))
}
