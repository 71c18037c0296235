package loans

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heliofin/heliofin/internal/status"
)

type memoryRepo struct {
	loans map[string]Loan
	order []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{loans: make(map[string]Loan)}
}

func (r *memoryRepo) Insert(ctx context.Context, loan Loan) error {
	loan.CreatedAt = time.Now()
	loan.UpdatedAt = loan.CreatedAt
	r.loans[loan.ID] = loan
	r.order = append(r.order, loan.ID)
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Loan, error) {
	loan, ok := r.loans[id]
	if !ok {
		return Loan{}, ErrNotFound
	}
	loan.normalize()
	return loan, nil
}

func (r *memoryRepo) List(ctx context.Context, borrowerID string) ([]Loan, error) {
	var out []Loan
	for _, id := range r.order {
		loan := r.loans[id]
		if borrowerID != "" && loan.BorrowerID != borrowerID {
			continue
		}
		loan.normalize()
		out = append(out, loan)
	}
	return out, nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id, rawStatus string, nextPaymentAt *time.Time) error {
	loan, ok := r.loans[id]
	if !ok {
		return ErrNotFound
	}
	loan.RawStatus = rawStatus
	if nextPaymentAt != nil {
		loan.NextPaymentAt = nextPaymentAt
	}
	loan.UpdatedAt = time.Now()
	r.loans[id] = loan
	return nil
}

func (r *memoryRepo) ListDueBefore(ctx context.Context, rawStatus string, cutoff time.Time) ([]Loan, error) {
	var out []Loan
	for _, id := range r.order {
		loan := r.loans[id]
		if loan.RawStatus != rawStatus || loan.NextPaymentAt == nil {
			continue
		}
		if loan.NextPaymentAt.Before(cutoff) {
			loan.normalize()
			out = append(out, loan)
		}
	}
	return out, nil
}

func newTestLoan(t *testing.T, svc *Service) Loan {
	t.Helper()
	loan, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		BorrowerID:   "u1",
		FirstName:    "Mary",
		LastName:     "Okafor",
		Amount:       1200000,
		TenureMonths: 12,
	})
	require.NoError(t, err)
	return loan
}

func TestCreateRequestDefaults(t *testing.T) {
	svc := NewService(newMemoryRepo())
	loan := newTestLoan(t, svc)

	require.Equal(t, RawPending, loan.RawStatus)
	require.Equal(t, status.KeyPending, loan.Status)
	require.Equal(t, "Pending", loan.StatusLabel)
	require.Equal(t, "NGN", loan.Currency)
	require.NotNil(t, loan.DateRequested)
}

func TestLoanLifecycle(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	loan := newTestLoan(t, svc)

	loan, err := svc.SendOffer(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyOfferReceived, loan.Status)

	loan, err = svc.AcceptOffer(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyAwaitingDownpayment, loan.Status)

	loan, err = svc.RecordDownpayment(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyAwaitingDisbursement, loan.Status)

	loan, err = svc.Disburse(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyActive, loan.Status)
	require.NotNil(t, loan.NextPaymentAt)

	loan, err = svc.Complete(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyCompleted, loan.Status)
}

func TestInvalidTransition(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	loan := newTestLoan(t, svc)

	_, err := svc.Disburse(ctx, loan.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Complete(ctx, loan.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkOverdue(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	loan := newTestLoan(t, svc)
	_, err := svc.SendOffer(ctx, loan.ID)
	require.NoError(t, err)
	_, err = svc.AcceptOffer(ctx, loan.ID)
	require.NoError(t, err)
	_, err = svc.RecordDownpayment(ctx, loan.ID)
	require.NoError(t, err)
	_, err = svc.Disburse(ctx, loan.ID)
	require.NoError(t, err)

	// Not yet due.
	flipped, err := svc.MarkOverdue(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, flipped)

	// Past the next payment date.
	flipped, err = svc.MarkOverdue(ctx, time.Now().AddDate(0, 2, 0))
	require.NoError(t, err)
	require.Equal(t, 1, flipped)

	got, err := svc.Get(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyOverdue, got.Status)

	// A repayment recovers the loan.
	got, err = svc.RecordRepayment(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyActive, got.Status)
}

func TestListScopesBorrower(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_ = newTestLoan(t, svc)
	_, err := svc.CreateRequest(ctx, CreateRequestInput{
		BorrowerID:   "u2",
		FirstName:    "John",
		LastName:     "Ade",
		Amount:       300000,
		TenureMonths: 6,
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, "", FilterParams{Status: StatusAll})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.List(ctx, "u2", FilterParams{Status: StatusAll})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "John", mine[0].UserFirstName)
}
