package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heliofin/heliofin/internal/status"
)

type memoryRepo struct {
	invoices map[string]Invoice
	order    []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{invoices: make(map[string]Invoice)}
}

func (r *memoryRepo) Insert(ctx context.Context, inv Invoice) error {
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	r.invoices[inv.ID] = inv
	r.order = append(r.order, inv.ID)
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	inv.normalize()
	return inv, nil
}

func (r *memoryRepo) List(ctx context.Context, customerID string) ([]Invoice, error) {
	var out []Invoice
	for _, id := range r.order {
		inv := r.invoices[id]
		if customerID != "" && inv.CustomerID != customerID {
			continue
		}
		inv.normalize()
		out = append(out, inv)
	}
	return out, nil
}

func (r *memoryRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	inv, ok := r.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.RawStatus = RawPaid
	inv.PaidAt = &paidAt
	inv.UpdatedAt = time.Now()
	r.invoices[id] = inv
	return nil
}

func TestCreateAndPay(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	inv, err := svc.Create(ctx, CreateInput{
		IssuerID:   "p1",
		CustomerID: "c1",
		Reference:  "INV-0042",
		Amount:     450000,
	})
	require.NoError(t, err)
	require.Equal(t, status.KeyPending, inv.Status)
	require.Equal(t, "Pending", inv.StatusLabel)
	require.Contains(t, inv.AmountDisplay, "450,000")

	inv, err = svc.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyPaid, inv.Status)
	require.NotNil(t, inv.PaidAt)

	_, err = svc.MarkPaid(ctx, inv.ID)
	require.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_, err := svc.Create(context.Background(), CreateInput{
		IssuerID:   "p1",
		CustomerID: "c1",
		Reference:  "INV-0001",
		Amount:     0,
	})
	require.Error(t, err)
}

func TestListScoping(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{IssuerID: "p1", CustomerID: "c1", Reference: "A", Amount: 100})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{IssuerID: "p1", CustomerID: "c2", Reference: "B", Amount: 200})
	require.NoError(t, err)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	scoped, err := svc.List(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Equal(t, "B", scoped[0].Reference)
}
