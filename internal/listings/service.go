package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidState indicates the operation does not apply in the listing's
// current state.
var ErrInvalidState = errors.New("listings: invalid state")

// Service orchestrates the listing lifecycle.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput describes a new draft listing.
type CreateInput struct {
	ProviderID  string
	SKU         string
	Name        string
	Description string
	Price       float64
	Currency    string
	Quantity    int
}

// CreateDraft registers a listing in the draft state.
func (s *Service) CreateDraft(ctx context.Context, in CreateInput) (Listing, error) {
	if in.Price < 0 || in.Quantity < 0 {
		return Listing{}, errors.New("listings: price and quantity must not be negative")
	}
	currency := in.Currency
	if currency == "" {
		currency = "NGN"
	}
	l := Listing{
		ID:          uuid.NewString(),
		ProviderID:  in.ProviderID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Currency:    currency,
		Quantity:    in.Quantity,
		RawStatus:   RawDraft,
	}
	if err := s.repo.Insert(ctx, l); err != nil {
		return Listing{}, err
	}
	return s.repo.Get(ctx, l.ID)
}

// Get fetches one listing.
func (s *Service) Get(ctx context.Context, id string) (Listing, error) {
	return s.repo.Get(ctx, id)
}

// List returns listings, optionally scoped to a provider.
func (s *Service) List(ctx context.Context, providerID string) ([]Listing, error) {
	return s.repo.List(ctx, providerID)
}

// Publish makes a draft or unpublished listing live. A listing with no
// stock publishes straight into out-of-stock.
func (s *Service) Publish(ctx context.Context, id string) (Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	if l.RawStatus != RawDraft && l.RawStatus != RawUnpublished {
		return Listing{}, fmt.Errorf("%w: cannot publish from %s", ErrInvalidState, l.RawStatus)
	}
	next := RawPublished
	if l.Quantity == 0 {
		next = RawOutOfStock
	}
	if err := s.repo.Update(ctx, id, next, l.Quantity); err != nil {
		return Listing{}, err
	}
	return s.repo.Get(ctx, id)
}

// Unpublish takes a live listing off the marketplace.
func (s *Service) Unpublish(ctx context.Context, id string) (Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	if l.RawStatus != RawPublished && l.RawStatus != RawOutOfStock {
		return Listing{}, fmt.Errorf("%w: cannot unpublish from %s", ErrInvalidState, l.RawStatus)
	}
	if err := s.repo.Update(ctx, id, RawUnpublished, l.Quantity); err != nil {
		return Listing{}, err
	}
	return s.repo.Get(ctx, id)
}

// AdjustStock applies a quantity delta. Live listings flip to out-of-stock
// at zero and back to published on restock.
func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (Listing, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	quantity := l.Quantity + delta
	if quantity < 0 {
		return Listing{}, fmt.Errorf("%w: stock cannot go below zero", ErrInvalidState)
	}
	next := l.RawStatus
	switch l.RawStatus {
	case RawPublished:
		if quantity == 0 {
			next = RawOutOfStock
		}
	case RawOutOfStock:
		if quantity > 0 {
			next = RawPublished
		}
	}
	if err := s.repo.Update(ctx, id, next, quantity); err != nil {
		return Listing{}, err
	}
	return s.repo.Get(ctx, id)
}
