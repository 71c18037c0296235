package quotes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heliofin/heliofin/internal/status"
)

type memoryRepo struct {
	quotes map[string]QuoteRequest
	order  []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{quotes: make(map[string]QuoteRequest)}
}

func (r *memoryRepo) Insert(ctx context.Context, q QuoteRequest) error {
	q.CreatedAt = time.Now()
	q.UpdatedAt = q.CreatedAt
	r.quotes[q.ID] = q
	r.order = append(r.order, q.ID)
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, id string) (QuoteRequest, error) {
	q, ok := r.quotes[id]
	if !ok {
		return QuoteRequest{}, ErrNotFound
	}
	q.normalize()
	return q, nil
}

func (r *memoryRepo) List(ctx context.Context, customerID, providerID string) ([]QuoteRequest, error) {
	var out []QuoteRequest
	for _, id := range r.order {
		q := r.quotes[id]
		if customerID != "" && q.CustomerID != customerID {
			continue
		}
		if providerID != "" && q.ProviderID != providerID {
			continue
		}
		q.normalize()
		out = append(out, q)
	}
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, id, rawStatus string, quotedPrice *float64) error {
	q, ok := r.quotes[id]
	if !ok {
		return ErrNotFound
	}
	q.RawStatus = rawStatus
	if quotedPrice != nil {
		q.QuotedPrice = quotedPrice
	}
	q.UpdatedAt = time.Now()
	r.quotes[id] = q
	return nil
}

func newRequest(t *testing.T, svc *Service) QuoteRequest {
	t.Helper()
	q, err := svc.Create(context.Background(), CreateInput{
		CustomerID: "c1",
		ProviderID: "p1",
		ListingID:  "l1",
		Quantity:   4,
	})
	require.NoError(t, err)
	return q
}

func TestNegotiationFlow(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	q := newRequest(t, svc)
	require.Equal(t, status.KeyPending, q.Status)

	q, err := svc.SendQuote(ctx, q.ID, 250000)
	require.NoError(t, err)
	require.Equal(t, status.KeyQuoteSent, q.Status)
	require.Equal(t, "Quote sent", q.StatusLabel)
	require.NotNil(t, q.QuotedPrice)
	require.Equal(t, 250000.0, *q.QuotedPrice)

	q, err = svc.Negotiate(ctx, q.ID, 220000)
	require.NoError(t, err)
	require.Equal(t, status.KeyNegotiated, q.Status)

	// Provider re-quotes after the counter.
	q, err = svc.SendQuote(ctx, q.ID, 230000)
	require.NoError(t, err)
	require.Equal(t, status.KeyQuoteSent, q.Status)

	q, err = svc.Accept(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyAccepted, q.Status)

	q, err = svc.MarkDelivered(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyDelivered, q.Status)
}

func TestRejectAndInvalidTransitions(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()
	q := newRequest(t, svc)

	// Cannot accept or deliver before a quote is sent.
	_, err := svc.Accept(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.MarkDelivered(ctx, q.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	q, err = svc.Reject(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, status.KeyRejected, q.Status)

	// Rejected is terminal.
	_, err = svc.SendQuote(ctx, q.ID, 100)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListScoping(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_ = newRequest(t, svc)
	_, err := svc.Create(ctx, CreateInput{CustomerID: "c2", ProviderID: "p1", ListingID: "l2", Quantity: 1})
	require.NoError(t, err)

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	byCustomer, err := svc.List(ctx, "c2", "")
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	byProvider, err := svc.List(ctx, "", "p1")
	require.NoError(t, err)
	require.Len(t, byProvider, 2)
}
