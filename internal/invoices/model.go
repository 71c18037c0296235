// Package invoices implements invoices raised against accepted quotes and
// disbursed loans.
package invoices

import (
	"time"

	"github.com/heliofin/heliofin/internal/format"
	"github.com/heliofin/heliofin/internal/status"
)

// Raw invoice statuses as stored. Billing upstream only distinguishes paid;
// everything else displays as pending.
const (
	RawPending = "pending"
	RawPaid    = "paid"
)

// Invoice is one bill issued on the platform.
type Invoice struct {
	ID            string     `json:"id"`
	IssuerID      string     `json:"issuer_id"`
	CustomerID    string     `json:"customer_id"`
	Reference     string     `json:"reference"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	AmountDisplay string     `json:"amount_display"`
	RawStatus     string     `json:"-"`
	Status        status.Key `json:"status"`
	StatusLabel   string     `json:"status_label"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (i *Invoice) normalize() {
	i.Status = status.ForInvoice(i.RawStatus)
	i.StatusLabel = status.Label(i.Status)
	i.AmountDisplay = format.Money(i.Currency, i.Amount)
}
