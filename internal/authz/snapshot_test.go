package authz

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	snap  Snapshot
	err   error
	calls atomic.Int64
}

func (s *stubSource) ActorSnapshot(ctx context.Context, userID string) (Snapshot, error) {
	s.calls.Add(1)
	if s.err != nil {
		return Snapshot{}, s.err
	}
	snap := s.snap
	snap.UserID = userID
	return snap, nil
}

func newTestProvider(t *testing.T, source MatrixSource, ttl, stale time.Duration) *Provider {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewProvider(source, client, ttl, stale, nil)
}

func TestProviderFetchesOnMiss(t *testing.T) {
	source := &stubSource{snap: Snapshot{Role: "merchant", Matrix: Matrix{ModuleLoans: {View: true}}}}
	provider := newTestProvider(t, source, time.Hour, time.Hour)

	snap, err := provider.Actor(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", snap.UserID)
	require.Equal(t, "merchant", snap.Role)
	require.True(t, HasPermission(snap.Matrix, ModuleLoans, ActionView))
	require.EqualValues(t, 1, source.calls.Load())
}

func TestProviderServesCached(t *testing.T) {
	source := &stubSource{snap: Snapshot{Role: "merchant", Matrix: FullMatrix()}}
	provider := newTestProvider(t, source, time.Hour, time.Hour)
	ctx := context.Background()

	_, err := provider.Actor(ctx, "u1")
	require.NoError(t, err)
	_, err = provider.Actor(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, source.calls.Load())
}

func TestProviderSnapshotsAreIndependent(t *testing.T) {
	source := &stubSource{snap: Snapshot{Role: "merchant", Matrix: FullMatrix()}}
	provider := newTestProvider(t, source, time.Hour, time.Hour)
	ctx := context.Background()

	first, err := provider.Actor(ctx, "u1")
	require.NoError(t, err)
	// Mutating one returned matrix must not leak into later reads: each
	// read deserializes a fresh snapshot.
	first.Matrix[ModuleLoans] = Actions{}

	second, err := provider.Actor(ctx, "u1")
	require.NoError(t, err)
	require.True(t, HasPermission(second.Matrix, ModuleLoans, ActionView))
}

func TestProviderInvalidate(t *testing.T) {
	source := &stubSource{snap: Snapshot{Role: "merchant", Matrix: FullMatrix()}}
	provider := newTestProvider(t, source, time.Hour, time.Hour)
	ctx := context.Background()

	_, err := provider.Actor(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, provider.Invalidate(ctx, "u1"))

	_, err = provider.Actor(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 2, source.calls.Load())
}

type countingRefreshes struct {
	n atomic.Int64
}

func (c *countingRefreshes) SnapshotRefreshed() { c.n.Add(1) }

func TestProviderCountsRefreshes(t *testing.T) {
	source := &stubSource{snap: Snapshot{Role: "merchant", Matrix: FullMatrix()}}
	provider := newTestProvider(t, source, time.Hour, time.Hour)
	counter := &countingRefreshes{}
	provider.SetMetrics(counter)
	ctx := context.Background()

	_, err := provider.Actor(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, counter.n.Load())

	// Cache hits do not count as refreshes.
	_, err = provider.Actor(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 1, counter.n.Load())

	_, err = provider.Refresh(ctx, "u1")
	require.NoError(t, err)
	require.EqualValues(t, 2, counter.n.Load())
}

func TestProviderSourceError(t *testing.T) {
	source := &stubSource{err: errors.New("store down")}
	provider := newTestProvider(t, source, time.Hour, time.Hour)

	_, err := provider.Actor(context.Background(), "u1")
	require.Error(t, err)
}
