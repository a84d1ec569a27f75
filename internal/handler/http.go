package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/tablefront/pos-finance/internal/entities"
	"github.com/tablefront/pos-finance/internal/service"
	"github.com/tablefront/pos-finance/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type SessionService interface {
	OpenSession(ctx context.Context, params service.OpenSessionParams) (entities.RegisterSession, error)
	UpdateSession(ctx context.Context, id int64, upd entities.SessionUpdate) (entities.RegisterSession, error)
	CloseSession(ctx context.Context, params service.CloseSessionParams) (entities.RegisterSession, error)
	GetActiveSession(ctx context.Context) (*entities.RegisterSession, error)
}

type Archiver interface {
	MigrateOlderThan(ctx context.Context, cutoffDays int) (entities.MigrationResult, error)
	PreviewMigration(ctx context.Context, cutoffDays int) (entities.MigrationPreview, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	sessions SessionService
	archiver Archiver
}

func NewHTTPHandler(logger *slog.Logger, sessions SessionService, archiver Archiver) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "http")),
		validate: validator.New(),
		sessions: sessions,
		archiver: archiver,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/register-sessions", func(r chi.Router) {
		r.Post("/", h.OpenSession)
		r.Put("/{id}", h.UpdateSession)
		r.Post("/{id}/close", h.CloseSession)
		r.Get("/status/active", h.GetActiveSession)
	})
	r.Route("/past-orders", func(r chi.Router) {
		r.Post("/migrate", h.Migrate)
		r.Get("/migrate/preview", h.PreviewMigration)
	})
}

func (h *HTTPHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req OpenSessionRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	session, err := h.sessions.OpenSession(ctx, service.OpenSessionParams{
		OpenedBy:    req.OpenedBy,
		OpeningCash: entities.MoneyFromFloat(*req.OpeningCash),
		Notes:       req.Notes,
	})
	if errors.Is(err, entities.ErrUserNotFound) {
		utils.WriteError(w, "unknown user", http.StatusBadRequest)
		return
	}
	if errors.Is(err, entities.ErrOpenSessionExists) {
		utils.WriteError(w, "a register session is already open", http.StatusConflict)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to open session", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sessionsOpened.Inc()
	utils.WriteJSON(w, SessionEntityToJSON(session), http.StatusCreated)
}

func (h *HTTPHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid session id", http.StatusBadRequest)
		return
	}

	var req UpdateSessionRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	session, err := h.sessions.UpdateSession(ctx, id, entities.SessionUpdate{
		ClosedBy:     req.ClosedBy,
		ClosingCash:  floatPtrToMoney(req.ClosingCash),
		ExpectedCash: floatPtrToMoney(req.ExpectedCash),
		Notes:        req.Notes,
	})
	if errors.Is(err, entities.ErrSessionNotFound) {
		utils.WriteError(w, "session not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, entities.ErrSessionAlreadyClosed) {
		utils.WriteError(w, "session already closed", http.StatusBadRequest)
		return
	}
	if errors.Is(err, entities.ErrUserNotFound) {
		utils.WriteError(w, "unknown user", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update session", slog.Any("error", err), slog.Int64("session_id", id))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, SessionEntityToJSON(session), http.StatusOK)
}

func (h *HTTPHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteError(w, "invalid session id", http.StatusBadRequest)
		return
	}

	var req CloseSessionRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	session, err := h.sessions.CloseSession(ctx, service.CloseSessionParams{
		SessionID:    id,
		ClosedBy:     req.ClosedBy,
		ClosingCash:  entities.MoneyFromFloat(*req.ClosingCash),
		ExpectedCash: floatPtrToMoney(req.ExpectedCash),
		Notes:        req.Notes,
	})
	switch {
	case errors.Is(err, entities.ErrSessionNotFound):
		utils.WriteError(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, entities.ErrSessionAlreadyClosed):
		utils.WriteError(w, "session already closed", http.StatusBadRequest)
		return
	case errors.Is(err, entities.ErrUserNotFound):
		utils.WriteError(w, "unknown user", http.StatusBadRequest)
		return
	case err != nil:
		h.logger.ErrorContext(ctx, "failed to close session", slog.Any("error", err), slog.Int64("session_id", id))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	sessionsClosed.Inc()
	if session.CashDifference != nil {
		lastCashDifference.Set(session.CashDifference.Float64())
	}
	utils.WriteJSON(w, SessionEntityToJSON(session), http.StatusOK)
}

func (h *HTTPHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, err := h.sessions.GetActiveSession(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get active session", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if session == nil {
		utils.WriteJSON(w, nil, http.StatusOK)
		return
	}

	utils.WriteJSON(w, SessionEntityToJSON(*session), http.StatusOK)
}

func (h *HTTPHandler) Migrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MigrateRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	result, err := h.archiver.MigrateOlderThan(ctx, req.OlderThanDays)
	if errors.Is(err, entities.ErrInvalidCutoff) {
		utils.WriteError(w, "olderThanDays must be at least 1", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "migration failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ordersMigrated.Add(float64(result.MigratedCount))
	migrationFailures.Add(float64(len(result.Errors)))
	utils.WriteJSON(w, MigrateResponse{
		MigratedCount: result.MigratedCount,
		TotalFound:    result.TotalFound,
		Errors:        result.Errors,
	}, http.StatusOK)
}

func (h *HTTPHandler) PreviewMigration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days, err := strconv.Atoi(r.URL.Query().Get("olderThanDays"))
	if err != nil {
		utils.WriteError(w, "invalid olderThanDays", http.StatusBadRequest)
		return
	}

	preview, err := h.archiver.PreviewMigration(ctx, days)
	if errors.Is(err, entities.ErrInvalidCutoff) {
		utils.WriteError(w, "olderThanDays must be at least 1", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "migration preview failed", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, PreviewResponse{
		OrdersToMigrate:     preview.OrdersToMigrate,
		CurrentActiveOrders: preview.CurrentActiveOrders,
		CurrentPastOrders:   preview.CurrentPastOrders,
		CutoffDate:          preview.CutoffDate,
	}, http.StatusOK)
}
