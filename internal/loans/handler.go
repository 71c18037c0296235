package loans

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/platform/httpx"
	"github.com/heliofin/heliofin/internal/shared"
)

// Handler exposes the loan API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	authz    authz.Middleware
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
		authz:    mw,
	}
}

// MountRoutes registers the loan routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAny(authz.Requirement{Module: authz.ModuleLoans, Action: authz.ActionView}))
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequireAll(authz.Requirement{Module: authz.ModuleLoans, Action: authz.ActionManage}))
		r.Post("/", h.Create)
		r.Post("/{id}/offer", h.SendOffer)
		r.Post("/{id}/accept", h.AcceptOffer)
		r.Post("/{id}/downpayment", h.RecordDownpayment)
		r.Post("/{id}/disburse", h.Disburse)
		r.Post("/{id}/repayment", h.RecordRepayment)
		r.Post("/{id}/complete", h.Complete)
	})
}

// List returns loans with the dashboard filters applied. Customers only
// ever see their own loans.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := FilterParams{
		Query:     q.Get("q"),
		Status:    q.Get("status"),
		DateRange: DateRange(q.Get("date_range")),
	}

	borrowerID := q.Get("borrower_id")
	if actor, ok := authz.ActorFromContext(r.Context()); ok && actor.Role == "customer" {
		borrowerID = actor.UserID
	}

	records, err := h.service.List(r.Context(), borrowerID, params)
	if err != nil {
		h.logger.Error("list loans", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	page, perPage := shared.PageParams(r)
	pagination := shared.NewPagination(page, perPage, len(records))
	start := pagination.Offset()
	if start > len(records) {
		start = len(records)
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	httpx.JSON(w, http.StatusOK, ListResponse{
		Loans:      records[start:end],
		Total:      len(records),
		Pagination: pagination,
	})
}

// Show returns a single loan.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loan)
}

// Create registers a financing request.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRequestDTO
	if err := httpx.DecodeJSON(r, &dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(dto); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	loan, err := h.service.CreateRequest(r.Context(), CreateRequestInput{
		BorrowerID:    dto.BorrowerID,
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		Amount:        dto.Amount,
		Currency:      dto.Currency,
		TenureMonths:  dto.TenureMonths,
		DateRequested: dto.DateRequested,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, loan)
}

// SendOffer moves a pending request to offer_received.
func (h *Handler) SendOffer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.SendOffer)
}

// AcceptOffer accepts an offered loan.
func (h *Handler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.AcceptOffer)
}

// RecordDownpayment marks the downpayment as received.
func (h *Handler) RecordDownpayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.RecordDownpayment)
}

// Disburse activates the loan.
func (h *Handler) Disburse(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Disburse)
}

// RecordRepayment advances the repayment schedule.
func (h *Handler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.RecordRepayment)
}

// Complete closes the loan.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (Loan, error)) {
	loan, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, loan)
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "loan not found")
	case errors.Is(err, ErrInvalidTransition):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("loan operation", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
