package loans

import (
	"time"

	"github.com/heliofin/heliofin/internal/status"
)

// Raw loan statuses as the loan ledger stores them: lowercase snake_case,
// matched case-sensitively everywhere. Anything outside this vocabulary
// normalizes to Pending.
const (
	RawPending               = "pending"
	RawOfferReceived         = "offer_received"
	RawAwaitingDownpayment   = "awaiting_downpayment"
	RawAwaitingDisbursement  = "awaiting_loan_disbursement"
	RawActive                = "active"
	RawCompleted             = "completed"
	RawOverdue               = "overdue"
)

// Loan is a financing request with its offer lifecycle. RawStatus is the
// ledger value; Status is the canonical key derived from it at read time and
// never stored.
type Loan struct {
	ID            string     `json:"id"`
	BorrowerID    string     `json:"borrower_id"`
	UserFirstName string     `json:"user_first_name"`
	UserLastName  string     `json:"user_last_name"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	TenureMonths  int        `json:"tenure_months"`
	RawStatus     string     `json:"-"`
	Status        status.Key `json:"status"`
	StatusLabel   string     `json:"status_label"`
	DateRequested *time.Time `json:"date_requested,omitempty"`
	NextPaymentAt *time.Time `json:"next_payment_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// normalize derives the canonical status fields from the raw ledger status.
func (l *Loan) normalize() {
	l.Status = status.ForLoan(l.RawStatus)
	l.StatusLabel = status.Label(l.Status)
}

// transitions lists the raw statuses each raw status may move to.
var transitions = map[string][]string{
	RawPending:              {RawOfferReceived},
	RawOfferReceived:        {RawAwaitingDownpayment},
	RawAwaitingDownpayment:  {RawAwaitingDisbursement},
	RawAwaitingDisbursement: {RawActive},
	RawActive:               {RawCompleted, RawOverdue},
	RawOverdue:              {RawActive, RawCompleted},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
