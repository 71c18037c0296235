// Package quotes implements quote requests between customers and providers:
// a customer asks for a quote against a listing, the provider answers,
// either side negotiates, and the request ends accepted, rejected or
// delivered.
package quotes

import (
	"time"

	"github.com/heliofin/heliofin/internal/status"
)

// Raw quote statuses as stored. The quote service upstream is loose about
// casing, so normalization is case-insensitive; we always write lowercase.
const (
	RawPending    = "pending"
	RawQuoteSent  = "quote sent"
	RawNegotiated = "negotiated"
	RawAccepted   = "accepted"
	RawRejected   = "rejected"
	RawDelivered  = "delivered"
)

// QuoteRequest is one customer's request for pricing on a listing.
type QuoteRequest struct {
	ID          string     `json:"id"`
	CustomerID  string     `json:"customer_id"`
	ProviderID  string     `json:"provider_id"`
	ListingID   string     `json:"listing_id"`
	Quantity    int        `json:"quantity"`
	Message     string     `json:"message,omitempty"`
	QuotedPrice *float64   `json:"quoted_price,omitempty"`
	Currency    string     `json:"currency"`
	RawStatus   string     `json:"-"`
	Status      status.Key `json:"status"`
	StatusLabel string     `json:"status_label"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (q *QuoteRequest) normalize() {
	q.Status = status.ForQuote(q.RawStatus)
	q.StatusLabel = status.Label(q.Status)
}

var transitions = map[string][]string{
	RawPending:    {RawQuoteSent, RawRejected},
	RawQuoteSent:  {RawNegotiated, RawAccepted, RawRejected},
	RawNegotiated: {RawQuoteSent, RawAccepted, RawRejected},
	RawAccepted:   {RawDelivered},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
