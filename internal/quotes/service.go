package quotes

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidTransition indicates a disallowed status transition.
var ErrInvalidTransition = errors.New("quotes: invalid status transition")

// Service orchestrates the quote request lifecycle.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput describes a new quote request.
type CreateInput struct {
	CustomerID string
	ProviderID string
	ListingID  string
	Quantity   int
	Message    string
	Currency   string
}

// Create registers a pending quote request.
func (s *Service) Create(ctx context.Context, in CreateInput) (QuoteRequest, error) {
	if in.Quantity <= 0 {
		return QuoteRequest{}, errors.New("quotes: quantity must be positive")
	}
	currency := in.Currency
	if currency == "" {
		currency = "NGN"
	}
	q := QuoteRequest{
		ID:         uuid.NewString(),
		CustomerID: in.CustomerID,
		ProviderID: in.ProviderID,
		ListingID:  in.ListingID,
		Quantity:   in.Quantity,
		Message:    in.Message,
		Currency:   currency,
		RawStatus:  RawPending,
	}
	if err := s.repo.Insert(ctx, q); err != nil {
		return QuoteRequest{}, fmt.Errorf("insert quote request: %w", err)
	}
	return s.repo.Get(ctx, q.ID)
}

// Get fetches one quote request.
func (s *Service) Get(ctx context.Context, id string) (QuoteRequest, error) {
	return s.repo.Get(ctx, id)
}

// List returns quote requests, optionally scoped by customer or provider.
func (s *Service) List(ctx context.Context, customerID, providerID string) ([]QuoteRequest, error) {
	return s.repo.List(ctx, customerID, providerID)
}

// SendQuote answers a pending or renegotiated request with a price.
func (s *Service) SendQuote(ctx context.Context, id string, price float64) (QuoteRequest, error) {
	if price <= 0 {
		return QuoteRequest{}, errors.New("quotes: price must be positive")
	}
	return s.transition(ctx, id, RawQuoteSent, &price)
}

// Negotiate counters a sent quote with a proposed price.
func (s *Service) Negotiate(ctx context.Context, id string, price float64) (QuoteRequest, error) {
	if price <= 0 {
		return QuoteRequest{}, errors.New("quotes: price must be positive")
	}
	return s.transition(ctx, id, RawNegotiated, &price)
}

// Accept accepts a sent or negotiated quote.
func (s *Service) Accept(ctx context.Context, id string) (QuoteRequest, error) {
	return s.transition(ctx, id, RawAccepted, nil)
}

// Reject rejects the request at any pre-acceptance stage.
func (s *Service) Reject(ctx context.Context, id string) (QuoteRequest, error) {
	return s.transition(ctx, id, RawRejected, nil)
}

// MarkDelivered closes out an accepted quote.
func (s *Service) MarkDelivered(ctx context.Context, id string) (QuoteRequest, error) {
	return s.transition(ctx, id, RawDelivered, nil)
}

func (s *Service) transition(ctx context.Context, id, to string, price *float64) (QuoteRequest, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return QuoteRequest{}, err
	}
	if !canTransition(q.RawStatus, to) {
		return QuoteRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, q.RawStatus, to)
	}
	if err := s.repo.Update(ctx, id, to, price); err != nil {
		return QuoteRequest{}, err
	}
	return s.repo.Get(ctx, id)
}
