// Package jobs defines the background tasks and the Asynq worker runtime.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/loans"
	"github.com/heliofin/heliofin/internal/team"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverdueScan sweeps active loans past their payment date.
	TaskOverdueScan = "loans:overdue_scan"
	// TaskSnapshotWarmup refreshes the actor snapshot cache for all members.
	TaskSnapshotWarmup = "authz:snapshot_warmup"
)

// OverdueScanPayload parameterises the overdue sweep.
type OverdueScanPayload struct {
	// Grace shifts the cutoff backwards so loans a few hours late are not
	// flagged by a sweep racing the payment processor.
	Grace time.Duration `json:"grace"`
}

// NewOverdueScanTask constructs the sweep task.
func NewOverdueScanTask(payload OverdueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOverdueScan, data), nil
}

// NewSnapshotWarmupTask constructs the warmup task.
func NewSnapshotWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskSnapshotWarmup, nil)
}

// OverdueScanHandler marks active loans overdue when their next payment
// date has passed.
type OverdueScanHandler struct {
	Loans  *loans.Service
	Logger *slog.Logger
}

// Handle processes TaskOverdueScan tasks.
func (h OverdueScanHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OverdueScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	cutoff := time.Now().Add(-payload.Grace)
	flagged, err := h.Loans.MarkOverdue(ctx, cutoff)
	if err != nil {
		return err
	}
	if h.Logger != nil {
		h.Logger.Info("overdue scan", slog.Int("flagged", flagged), slog.Time("cutoff", cutoff))
	}
	return nil
}

// SnapshotWarmupHandler refreshes every member's cached actor snapshot so
// the first request after a deploy never pays the source fetch.
type SnapshotWarmupHandler struct {
	Team      *team.Service
	Snapshots *authz.Provider
	Logger    *slog.Logger
}

// Handle processes TaskSnapshotWarmup tasks.
func (h SnapshotWarmupHandler) Handle(ctx context.Context, _ *asynq.Task) error {
	members, err := h.Team.List(ctx)
	if err != nil {
		return err
	}
	for _, m := range members {
		if _, err := h.Snapshots.Refresh(ctx, m.ID); err != nil {
			if h.Logger != nil {
				h.Logger.Warn("snapshot warmup", slog.String("member_id", m.ID), slog.Any("error", err))
			}
		}
	}
	return nil
}
