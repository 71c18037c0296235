package wallet

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("wallet: transaction not found")

// Repository is the persistence contract for the transaction ledger.
type Repository interface {
	Insert(ctx context.Context, tx Transaction) error
	Get(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context, ownerID string) ([]Transaction, error)
	UpdateStatus(ctx context.Context, id, rawStatus string) error
}
