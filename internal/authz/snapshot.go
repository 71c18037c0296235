package authz

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Snapshot is an immutable view of the authenticated actor: role plus
// permission matrix. Consumers read whatever snapshot they are handed and
// never mutate it; refreshes replace the whole value, so a concurrent reader
// sees either the old or the new snapshot, never a partial one.
type Snapshot struct {
	UserID string
	Role   string
	Matrix Matrix
}

// MatrixSource loads the current role and matrix for a user from the
// backing store.
type MatrixSource interface {
	ActorSnapshot(ctx context.Context, userID string) (Snapshot, error)
}

// RefreshCounter counts snapshot refreshes against the source. Satisfied by
// *observability.Metrics.
type RefreshCounter interface {
	SnapshotRefreshed()
}

// Provider serves actor snapshots with stale-while-revalidate semantics:
// reads are answered from the redis cache, and a read older than the stale
// window kicks off a background refresh. Concurrent refreshes for the same
// user collapse into one source fetch.
type Provider struct {
	source  MatrixSource
	client  *redis.Client
	ttl     time.Duration
	stale   time.Duration
	logger  *slog.Logger
	counter RefreshCounter
	group   singleflight.Group
}

// NewProvider constructs a Provider. ttl bounds how long a cached snapshot
// survives without any refresh; stale is the age past which a served
// snapshot triggers revalidation.
func NewProvider(source MatrixSource, client *redis.Client, ttl, stale time.Duration, logger *slog.Logger) *Provider {
	return &Provider{
		source: source,
		client: client,
		ttl:    ttl,
		stale:  stale,
		logger: logger,
	}
}

// SetSource installs the matrix source after construction. The provider and
// its source reference each other (the source invalidates through the
// provider), so wiring happens in two steps. Must be called before Actor or
// Refresh.
func (p *Provider) SetSource(source MatrixSource) {
	p.source = source
}

// SetMetrics installs the refresh counter. Optional; with no counter set
// refreshes go uncounted.
func (p *Provider) SetMetrics(counter RefreshCounter) {
	p.counter = counter
}

type snapshotPayload struct {
	Role        string    `json:"role"`
	Matrix      Matrix    `json:"matrix"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

// Actor returns the snapshot for a user, fetching from the source on a
// cache miss. Unmarshalling allocates a fresh matrix per call, so no two
// callers share mutable state.
func (p *Provider) Actor(ctx context.Context, userID string) (Snapshot, error) {
	data, err := p.client.Get(ctx, p.key(userID)).Bytes()
	if err == nil {
		var stored snapshotPayload
		if jsonErr := json.Unmarshal(data, &stored); jsonErr == nil {
			if p.stale > 0 && time.Since(stored.RefreshedAt) > p.stale {
				go func() {
					if _, refreshErr := p.Refresh(context.WithoutCancel(ctx), userID); refreshErr != nil && p.logger != nil {
						p.logger.Warn("actor snapshot revalidate", slog.String("user_id", userID), slog.Any("error", refreshErr))
					}
				}()
			}
			return Snapshot{UserID: userID, Role: stored.Role, Matrix: stored.Matrix}, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return Snapshot{}, err
	}
	return p.Refresh(ctx, userID)
}

// Refresh fetches the snapshot from the source and replaces the cached
// value wholesale.
func (p *Provider) Refresh(ctx context.Context, userID string) (Snapshot, error) {
	v, err, _ := p.group.Do(userID, func() (any, error) {
		snap, err := p.source.ActorSnapshot(ctx, userID)
		if err != nil {
			return Snapshot{}, err
		}
		if p.counter != nil {
			p.counter.SnapshotRefreshed()
		}
		payload := snapshotPayload{Role: snap.Role, Matrix: snap.Matrix, RefreshedAt: time.Now()}
		data, err := json.Marshal(payload)
		if err != nil {
			return Snapshot{}, err
		}
		if err := p.client.Set(ctx, p.key(userID), data, p.ttl).Err(); err != nil && p.logger != nil {
			p.logger.Warn("actor snapshot cache", slog.String("user_id", userID), slog.Any("error", err))
		}
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// Invalidate drops the cached snapshot so the next read hits the source.
// Team matrix updates call this after replacing a member's matrix.
func (p *Provider) Invalidate(ctx context.Context, userID string) error {
	err := p.client.Del(ctx, p.key(userID)).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (p *Provider) key(userID string) string {
	return "actor:" + userID
}
