package listings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heliofin/heliofin/internal/status"
)

type memoryRepo struct {
	listings map[string]Listing
	order    []string
	skus     map[string]struct{}
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{listings: make(map[string]Listing), skus: make(map[string]struct{})}
}

func (r *memoryRepo) Insert(ctx context.Context, l Listing) error {
	key := l.ProviderID + "/" + l.SKU
	if _, dup := r.skus[key]; dup {
		return ErrDuplicateSKU
	}
	r.skus[key] = struct{}{}
	l.CreatedAt = time.Now()
	l.UpdatedAt = l.CreatedAt
	r.listings[l.ID] = l
	r.order = append(r.order, l.ID)
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return Listing{}, ErrNotFound
	}
	l.normalize()
	return l, nil
}

func (r *memoryRepo) List(ctx context.Context, providerID string) ([]Listing, error) {
	var out []Listing
	for _, id := range r.order {
		l := r.listings[id]
		if providerID != "" && l.ProviderID != providerID {
			continue
		}
		l.normalize()
		out = append(out, l)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, id, rawStatus string, quantity int) error {
	l, ok := r.listings[id]
	if !ok {
		return ErrNotFound
	}
	l.RawStatus = rawStatus
	l.Quantity = quantity
	l.UpdatedAt = time.Now()
	r.listings[id] = l
	return nil
}

func draft(t *testing.T, svc *Service, sku string, qty int) Listing {
	t.Helper()
	l, err := svc.CreateDraft(context.Background(), CreateInput{
		ProviderID: "p1",
		SKU:        sku,
		Name:       "450W Mono Panel",
		Price:      185000,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return l
}

func TestCreateDraft(t *testing.T) {
	svc := NewService(newMemoryRepo())
	l := draft(t, svc, "PNL-450", 10)
	require.Equal(t, status.KeyDraft, l.Status)
	require.Equal(t, "Draft", l.StatusLabel)
}

func TestDuplicateSKU(t *testing.T) {
	svc := NewService(newMemoryRepo())
	_ = draft(t, svc, "PNL-450", 10)
	_, err := svc.CreateDraft(context.Background(), CreateInput{
		ProviderID: "p1",
		SKU:        "PNL-450",
		Name:       "Another panel",
	})
	require.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestPublishUnpublish(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	l := draft(t, svc, "PNL-450", 10)

	l, err := svc.Publish(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyPublished, l.Status)

	// Publishing twice is invalid.
	_, err = svc.Publish(ctx, l.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	l, err = svc.Unpublish(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyUnpublished, l.Status)

	l, err = svc.Publish(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyPublished, l.Status)
}

func TestPublishEmptyStock(t *testing.T) {
	svc := NewService(newMemoryRepo())
	l := draft(t, svc, "PNL-450", 0)
	l, err := svc.Publish(context.Background(), l.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyOutOfStock, l.Status)
	require.Equal(t, "Out of Stock", l.StatusLabel)
}

func TestStockTransitions(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	l := draft(t, svc, "PNL-450", 2)

	l, err := svc.Publish(ctx, l.ID)
	require.NoError(t, err)

	l, err = svc.AdjustStock(ctx, l.ID, -2)
	require.NoError(t, err)
	require.Equal(t, status.KeyOutOfStock, l.Status)
	require.Zero(t, l.Quantity)

	l, err = svc.AdjustStock(ctx, l.ID, 5)
	require.NoError(t, err)
	require.Equal(t, status.KeyPublished, l.Status)
	require.Equal(t, 5, l.Quantity)

	_, err = svc.AdjustStock(ctx, l.ID, -9)
	require.ErrorIs(t, err, ErrInvalidState)
}
