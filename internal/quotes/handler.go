package quotes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/platform/httpx"
)

// Handler exposes the quote request API.
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
	CustomerID string `json:"customer_id" validate:"required"`
	ProviderID string `json:"provider_id" validate:"required"`
	ListingID  string `json:"listing_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	Message    string `json:"message" validate:"max=2000"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
}

type priceDTO struct {
	Price float64 `json:"price" validate:"required,gt=0"`
}

// MountRoutes registers the quote routes. Viewing needs marketplace or
// loans visibility; mutations need marketplace manage.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(
			authz.Requirement{Module: authz.ModuleMarketplace, Action: authz.ActionView},
			authz.Requirement{Module: authz.ModuleLoans, Action: authz.ActionView},
		))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAll(authz.Requirement{Module: authz.ModuleMarketplace, Action: authz.ActionManage}))
		r.Post("/", h.Create)
		r.Post("/{id}/quote", h.SendQuote)
		r.Post("/{id}/negotiate", h.Negotiate)
		r.Post("/{id}/accept", h.Accept)
		r.Post("/{id}/reject", h.Reject)
		r.Post("/{id}/delivered", h.MarkDelivered)
	})
}

// List returns quote requests, scoped for customers.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customer_id")
	providerID := r.URL.Query().Get("provider_id")
	if actor, ok := authz.ActorFromContext(r.Context()); ok && actor.Role == "customer" {
		customerID = actor.UserID
	}
	records, err := h.service.List(r.Context(), customerID, providerID)
	if err != nil {
		h.logger.Error("list quote requests", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"quotes": records, "total": len(records)})
}

// Show returns one quote request.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

// Create registers a quote request.
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
	q, err := h.service.Create(r.Context(), CreateInput{
		CustomerID: dto.CustomerID,
		ProviderID: dto.ProviderID,
		ListingID:  dto.ListingID,
		Quantity:   dto.Quantity,
		Message:    dto.Message,
		Currency:   dto.Currency,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

// SendQuote answers the request with a price.
func (h *Handler) SendQuote(w http.ResponseWriter, r *http.Request) {
	h.priced(w, r, h.service.SendQuote)
}

// Negotiate counters with a price.
func (h *Handler) Negotiate(w http.ResponseWriter, r *http.Request) {
	h.priced(w, r, h.service.Negotiate)
}

// Accept accepts the quote.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.plain(w, r, h.service.Accept)
}

// Reject rejects the quote.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.plain(w, r, h.service.Reject)
}

// MarkDelivered marks the accepted quote as delivered.
func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	h.plain(w, r, h.service.MarkDelivered)
}

func (h *Handler) priced(w http.ResponseWriter, r *http.Request, op func(context.Context, string, float64) (QuoteRequest, error)) {
	var dto priceDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	q, err := op(r.Context(), chi.URLParam(r, "id"), dto.Price)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) plain(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (QuoteRequest, error)) {
	q, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "quote request not found")
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("quote operation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
