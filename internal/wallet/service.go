package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidTransaction = errors.New("wallet: invalid transaction")

// Service holds wallet business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// RecordRequest captures the fields needed to record a ledger entry.
type RecordRequest struct {
	OwnerID   string  `json:"owner_id" validate:"required"`
	Direction string  `json:"direction" validate:"required,oneof=credit debit"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"omitempty,len=3"`
	Reference string  `json:"reference" validate:"required"`
}

// Record writes a pending transaction. Settlement arrives later from the
// processor through Settle.
func (s *Service) Record(ctx context.Context, req RecordRequest) (Transaction, error) {
	if req.Amount <= 0 {
		return Transaction{}, fmt.Errorf("%w: amount must be positive", ErrInvalidTransaction)
	}
	if req.Direction != DirectionCredit && req.Direction != DirectionDebit {
		return Transaction{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidTransaction, req.Direction)
	}
	currency := req.Currency
	if currency == "" {
		currency = "NGN"
	}
	tx := Transaction{
		ID:        uuid.NewString(),
		OwnerID:   req.OwnerID,
		Direction: req.Direction,
		Amount:    req.Amount,
		Currency:  currency,
		Reference: req.Reference,
		RawStatus: RawPending,
		CreatedAt: s.now(),
	}
	tx.normalize()
	if err := s.repo.Insert(ctx, tx); err != nil {
		return Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// Settle records the processor's verdict for a pending transaction.
func (s *Service) Settle(ctx context.Context, id, rawStatus string) (Transaction, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return Transaction{}, err
	}
	if err := s.repo.UpdateStatus(ctx, id, rawStatus); err != nil {
		return Transaction{}, err
	}
	return s.repo.Get(ctx, id)
}

// Get fetches one transaction.
func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

// Transactions returns the ledger for an owner, newest first.
func (s *Service) Transactions(ctx context.Context, ownerID string) ([]Transaction, error) {
	return s.repo.List(ctx, ownerID)
}

// Overview is the wallet dashboard payload.
type Overview struct {
	Balance  float64         `json:"balance"`
	Currency string          `json:"currency"`
	Cashflow []CashflowPoint `json:"cashflow"`
}

// Overview computes the settled balance and the trailing cashflow series.
func (s *Service) Overview(ctx context.Context, ownerID string, months int) (Overview, error) {
	txs, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return Overview{}, err
	}
	currency := "NGN"
	if len(txs) > 0 {
		currency = txs[0].Currency
	}
	return Overview{
		Balance:  Balance(txs),
		Currency: currency,
		Cashflow: Cashflow(txs, months, s.now()),
	}, nil
}
