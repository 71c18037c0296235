package quotes

import (
	"context"
	"errors"
)

// ErrNotFound indicates the quote request does not exist.
var ErrNotFound = errors.New("quotes: not found")

// Repository persists quote requests.
type Repository interface {
	Insert(ctx context.Context, q QuoteRequest) error
	Get(ctx context.Context, id string) (QuoteRequest, error)
	List(ctx context.Context, customerID, providerID string) ([]QuoteRequest, error)
	Update(ctx context.Context, id, rawStatus string, quotedPrice *float64) error
}
