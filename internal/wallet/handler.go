package wallet

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/platform/httpx"
)

// Handler exposes the wallet API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New(), authz: mw}
}

type settleDTO struct {
	Status string `json:"status" validate:"required"`
}

// MountRoutes registers the wallet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.Requirement{Module: authz.ModuleTransactions, Action: authz.ActionView}))
		r.Get("/", h.Overview)
		r.Get("/transactions", h.List)
		r.Get("/transactions/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAll(authz.Requirement{Module: authz.ModuleTransactions, Action: authz.ActionManage}))
		r.Post("/transactions", h.Record)
		r.Post("/transactions/{id}/settle", h.Settle)
	})
}

// Overview returns the balance and cashflow series.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if actor, ok := authz.ActorFromContext(r.Context()); ok && actor.Role == "customer" {
		ownerID = actor.UserID
	}
	months := 6
	if raw := r.URL.Query().Get("months"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 24 {
			months = n
		}
	}
	overview, err := h.service.Overview(r.Context(), ownerID, months)
	if err != nil {
		h.logger.Error("wallet overview", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

// List returns the ledger, scoped for customers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if actor, ok := authz.ActorFromContext(r.Context()); ok && actor.Role == "customer" {
		ownerID = actor.UserID
	}
	records, err := h.service.Transactions(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("list transactions", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"transactions": records, "total": len(records)})
}

// Show returns one transaction.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
}

// Record writes a pending ledger entry.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var dto RecordRequest
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	tx, err := h.service.Record(r.Context(), dto)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, tx)
}

// Settle applies the processor verdict.
func (h *Handler) Settle(w http.ResponseWriter, r *http.Request) {
	var dto settleDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	tx, err := h.service.Settle(r.Context(), chi.URLParam(r, "id"), dto.Status)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tx)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "transaction not found")
	case errors.Is(err, ErrInvalidTransaction):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Transaction", err.Error())
	default:
		h.logger.Error("wallet operation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
