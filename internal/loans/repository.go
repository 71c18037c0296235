package loans

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates that the requested loan does not exist.
var ErrNotFound = errors.New("loans: not found")

// Repository persists loans.
type Repository interface {
	Insert(ctx context.Context, loan Loan) error
	Get(ctx context.Context, id string) (Loan, error)
	List(ctx context.Context, borrowerID string) ([]Loan, error)
	UpdateStatus(ctx context.Context, id, rawStatus string, nextPaymentAt *time.Time) error
	ListDueBefore(ctx context.Context, rawStatus string, cutoff time.Time) ([]Loan, error)
}
