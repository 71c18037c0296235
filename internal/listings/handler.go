package listings

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

// Handler exposes the marketplace listing API.
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
	ProviderID  string  `json:"provider_id" validate:"required"`
	SKU         string  `json:"sku" validate:"required,max=64"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Currency    string  `json:"currency" validate:"omitempty,len=3"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

// MountRoutes registers the listing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.Requirement{Module: authz.ModuleMarketplace, Action: authz.ActionView}))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAll(authz.Requirement{Module: authz.ModuleMarketplace, Action: authz.ActionManage}))
		r.Post("/", h.Create)
		r.Post("/{id}/publish", h.Publish)
		r.Post("/{id}/unpublish", h.Unpublish)
		r.Post("/{id}/stock", h.AdjustStock)
	})
}

// List returns listings, optionally scoped by provider.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context(), r.URL.Query().Get("provider_id"))
	if err != nil {
		h.logger.Error("list listings", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"listings": records, "total": len(records)})
}

// Show returns one listing.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}

// Create registers a draft listing.
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
	l, err := h.service.CreateDraft(r.Context(), CreateInput{
		ProviderID:  dto.ProviderID,
		SKU:         dto.SKU,
		Name:        dto.Name,
		Description: dto.Description,
		Price:       dto.Price,
		Currency:    dto.Currency,
		Quantity:    dto.Quantity,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, l)
}

// Publish makes the listing live.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}

// Unpublish takes the listing off the marketplace.
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.Unpublish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}

// AdjustStock applies the delta query parameter to the stock level.
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	delta, err := strconv.Atoi(r.URL.Query().Get("delta"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "delta must be an integer")
		return
	}
	l, err := h.service.AdjustStock(r.Context(), chi.URLParam(r, "id"), delta)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, l)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "listing not found")
	case errors.Is(err, ErrDuplicateSKU):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrInvalidState):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("listing operation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
