// Package listings implements the marketplace catalogue: solar equipment
// listings that providers draft, publish and keep stocked.
package listings

import (
	"time"

	"github.com/heliofin/heliofin/internal/status"
)

// Raw listing statuses as the catalogue stores them, uppercase. Historic
// rows also contain OUT_OF_STOCK with an underscore; normalization accepts
// both.
const (
	RawDraft       = "DRAFT"
	RawPublished   = "PUBLISHED"
	RawUnpublished = "UNPUBLISHED"
	RawOutOfStock  = "OUTOFSTOCK"
)

// Listing is one marketplace item.
type Listing struct {
	ID          string     `json:"id"`
	ProviderID  string     `json:"provider_id"`
	SKU         string     `json:"sku"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Currency    string     `json:"currency"`
	Quantity    int        `json:"quantity"`
	RawStatus   string     `json:"-"`
	Status      status.Key `json:"status"`
	StatusLabel string     `json:"status_label"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (l *Listing) normalize() {
	l.Status = status.ForListing(l.RawStatus)
	l.StatusLabel = status.Label(l.Status)
}
