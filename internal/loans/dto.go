package loans

import (
	"time"

	"github.com/heliofin/heliofin/internal/shared"
)

// CreateRequestDTO is the payload for a new financing request.
type CreateRequestDTO struct {
	BorrowerID    string     `json:"borrower_id" validate:"required"`
	FirstName     string     `json:"first_name" validate:"required,max=100"`
	LastName      string     `json:"last_name" validate:"required,max=100"`
	Amount        float64    `json:"amount" validate:"required,gt=0"`
	Currency      string     `json:"currency" validate:"omitempty,len=3"`
	TenureMonths  int        `json:"tenure_months" validate:"required,gt=0,lte=120"`
	DateRequested *time.Time `json:"date_requested,omitempty"`
}

// ListResponse wraps a filtered loan listing.
type ListResponse struct {
	Loans      []Loan            `json:"loans"`
	Total      int               `json:"total"`
	Pagination shared.Pagination `json:"pagination"`
}
