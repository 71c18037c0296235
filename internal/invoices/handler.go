package invoices

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/platform/httpx"
)

// Handler exposes the invoice API.
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

type createDTO struct {
	IssuerID   string     `json:"issuer_id" validate:"required"`
	CustomerID string     `json:"customer_id" validate:"required"`
	Reference  string     `json:"reference" validate:"required,max=64"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	Currency   string     `json:"currency" validate:"omitempty,len=3"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// MountRoutes registers the invoice routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.Requirement{Module: authz.ModuleInvoices, Action: authz.ActionView}))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAll(authz.Requirement{Module: authz.ModuleInvoices, Action: authz.ActionManage}))
		r.Post("/", h.Create)
		r.Post("/{id}/pay", h.MarkPaid)
	})
}

// List returns invoices, scoped for customers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	if actor, ok := authz.ActorFromContext(r.Context()); ok && actor.Role == "customer" {
		customerID = actor.UserID
	}
	records, err := h.service.List(r.Context(), customerID)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"invoices": records, "total": len(records)})
}

// Show returns one invoice.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Create issues a new invoice.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto createDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	inv, err := h.service.Create(r.Context(), CreateInput{
		IssuerID:   dto.IssuerID,
		CustomerID: dto.CustomerID,
		Reference:  dto.Reference,
		Amount:     dto.Amount,
		Currency:   dto.Currency,
		DueAt:      dto.DueAt,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// MarkPaid settles an invoice.
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "invoice not found")
	case errors.Is(err, ErrAlreadyPaid):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("invoice operation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
