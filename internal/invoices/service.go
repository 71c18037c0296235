package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrAlreadyPaid indicates the invoice was already settled.
var ErrAlreadyPaid = errors.New("invoices: already paid")

// Service orchestrates invoicing.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput describes a new invoice.
type CreateInput struct {
	IssuerID   string
	CustomerID string
	Reference  string
	Amount     float64
	Currency   string
	DueAt      *time.Time
}

// Create issues an invoice in the pending state.
func (s *Service) Create(ctx context.Context, in CreateInput) (Invoice, error) {
	if in.Amount <= 0 {
		return Invoice{}, errors.New("invoices: amount must be positive")
	}
	currency := in.Currency
	if currency == "" {
		currency = "NGN"
	}
	inv := Invoice{
		ID:         uuid.NewString(),
		IssuerID:   in.IssuerID,
		CustomerID: in.CustomerID,
		Reference:  in.Reference,
		Amount:     in.Amount,
		Currency:   currency,
		RawStatus:  RawPending,
		DueAt:      in.DueAt,
	}
	if err := s.repo.Insert(ctx, inv); err != nil {
		return Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	return s.repo.Get(ctx, inv.ID)
}

// Get fetches one invoice.
func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	return s.repo.Get(ctx, id)
}

// List returns invoices, optionally scoped to a customer.
func (s *Service) List(ctx context.Context, customerID string) ([]Invoice, error) {
	return s.repo.List(ctx, customerID)
}

// MarkPaid settles a pending invoice.
func (s *Service) MarkPaid(ctx context.Context, id string) (Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if inv.RawStatus == RawPaid {
		return Invoice{}, ErrAlreadyPaid
	}
	if err := s.repo.MarkPaid(ctx, id, s.now()); err != nil {
		return Invoice{}, err
	}
	return s.repo.Get(ctx, id)
}
