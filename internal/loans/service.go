package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidTransition indicates a disallowed status transition.
var ErrInvalidTransition = errors.New("loans: invalid status transition")

// Service orchestrates the loan lifecycle.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateRequestInput describes a new financing request.
type CreateRequestInput struct {
	BorrowerID    string
	FirstName     string
	LastName      string
	Amount        float64
	Currency      string
	TenureMonths  int
	DateRequested *time.Time
}

// CreateRequest registers a financing request in the pending state.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (Loan, error) {
	if in.Amount <= 0 {
		return Loan{}, errors.New("loans: amount must be positive")
	}
	if in.TenureMonths <= 0 {
		return Loan{}, errors.New("loans: tenure must be positive")
	}
	currency := in.Currency
	if currency == "" {
		currency = "NGN"
	}
	loan := Loan{
		ID:            uuid.NewString(),
		BorrowerID:    in.BorrowerID,
		UserFirstName: in.FirstName,
		UserLastName:  in.LastName,
		Amount:        in.Amount,
		Currency:      currency,
		TenureMonths:  in.TenureMonths,
		RawStatus:     RawPending,
		DateRequested: in.DateRequested,
	}
	if loan.DateRequested == nil {
		now := s.now()
		loan.DateRequested = &now
	}
	if err := s.repo.Insert(ctx, loan); err != nil {
		return Loan{}, fmt.Errorf("insert loan: %w", err)
	}
	return s.repo.Get(ctx, loan.ID)
}

// Get fetches one loan.
func (s *Service) Get(ctx context.Context, id string) (Loan, error) {
	return s.repo.Get(ctx, id)
}

// List returns loans with the dashboard filters applied, newest first.
// borrowerID scopes the result for customer views; empty means all.
func (s *Service) List(ctx context.Context, borrowerID string, p FilterParams) ([]Loan, error) {
	records, err := s.repo.List(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	return Filter(records, p, s.now()), nil
}

// SendOffer moves a pending request to offer_received.
func (s *Service) SendOffer(ctx context.Context, id string) (Loan, error) {
	return s.transition(ctx, id, RawOfferReceived, nil)
}

// AcceptOffer moves an offered loan to awaiting_downpayment.
func (s *Service) AcceptOffer(ctx context.Context, id string) (Loan, error) {
	return s.transition(ctx, id, RawAwaitingDownpayment, nil)
}

// RecordDownpayment moves the loan to awaiting_loan_disbursement.
func (s *Service) RecordDownpayment(ctx context.Context, id string) (Loan, error) {
	return s.transition(ctx, id, RawAwaitingDisbursement, nil)
}

// Disburse activates the loan and schedules the first repayment a month
// out.
func (s *Service) Disburse(ctx context.Context, id string) (Loan, error) {
	next := s.now().AddDate(0, 1, 0)
	return s.transition(ctx, id, RawActive, &next)
}

// RecordRepayment advances the next payment date, completing the loan when
// the tenure is exhausted and recovering overdue loans to active.
func (s *Service) RecordRepayment(ctx context.Context, id string) (Loan, error) {
	loan, err := s.repo.Get(ctx, id)
	if err != nil {
		return Loan{}, err
	}
	if loan.RawStatus != RawActive && loan.RawStatus != RawOverdue {
		return Loan{}, ErrInvalidTransition
	}
	next := s.now().AddDate(0, 1, 0)
	if err := s.repo.UpdateStatus(ctx, id, RawActive, &next); err != nil {
		return Loan{}, err
	}
	return s.repo.Get(ctx, id)
}

// MarkOverdue flips active loans whose next payment date passed the cutoff.
// Returns the number of loans flipped. Called by the periodic sweep.
func (s *Service) MarkOverdue(ctx context.Context, cutoff time.Time) (int, error) {
	due, err := s.repo.ListDueBefore(ctx, RawActive, cutoff)
	if err != nil {
		return 0, err
	}
	flipped := 0
	for _, loan := range due {
		if err := s.repo.UpdateStatus(ctx, loan.ID, RawOverdue, nil); err != nil {
			return flipped, fmt.Errorf("mark overdue %s: %w", loan.ID, err)
		}
		flipped++
	}
	return flipped, nil
}

// Complete closes out an active or recovered loan.
func (s *Service) Complete(ctx context.Context, id string) (Loan, error) {
	return s.transition(ctx, id, RawCompleted, nil)
}

func (s *Service) transition(ctx context.Context, id, to string, nextPaymentAt *time.Time) (Loan, error) {
	loan, err := s.repo.Get(ctx, id)
	if err != nil {
		return Loan{}, err
	}
	if !canTransition(loan.RawStatus, to) {
		return Loan{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, loan.RawStatus, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to, nextPaymentAt); err != nil {
		return Loan{}, err
	}
	return s.repo.Get(ctx, id)
}
