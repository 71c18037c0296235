// Package wallet implements wallet balances, the transaction ledger and the
// cashflow aggregation behind the dashboard chart.
package wallet

import (
	"time"

	"github.com/heliofin/heliofin/internal/status"
)

// Transaction directions.
const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Raw transaction statuses as the payment processor reports them. Only
// successful settles; everything else displays as pending.
const (
	RawPending    = "pending"
	RawSuccessful = "successful"
)

// Transaction is one ledger entry.
type Transaction struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Direction   string     `json:"direction"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	Reference   string     `json:"reference"`
	RawStatus   string     `json:"-"`
	Status      status.Key `json:"status"`
	StatusLabel string     `json:"status_label"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (t *Transaction) normalize() {
	t.Status = status.ForTransaction(t.RawStatus)
	t.StatusLabel = status.Label(t.Status)
}

// settled reports whether the transaction counts toward balances and
// cashflow.
func (t Transaction) settled() bool {
	return t.Status == status.KeySuccessful
}
