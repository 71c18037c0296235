package listings

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the listing does not exist.
	ErrNotFound = errors.New("listings: not found")
	// ErrDuplicateSKU indicates the provider already has a listing with
	// this SKU.
	ErrDuplicateSKU = errors.New("listings: duplicate sku")
)

// Repository persists listings.
type Repository interface {
	Insert(ctx context.Context, l Listing) error
	Get(ctx context.Context, id string) (Listing, error)
	List(ctx context.Context, providerID string) ([]Listing, error)
	Update(ctx context.Context, id, rawStatus string, quantity int) error
}
