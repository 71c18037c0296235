package invoices

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the invoice does not exist.
var ErrNotFound = errors.New("invoices: not found")

// Repository persists invoices.
type Repository interface {
	Insert(ctx context.Context, inv Invoice) error
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, customerID string) ([]Invoice, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}
