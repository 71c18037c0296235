package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/heliofin/heliofin/internal/app"
	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/loans"
	"github.com/heliofin/heliofin/internal/platform/cache"
	"github.com/heliofin/heliofin/internal/platform/db"
	"github.com/heliofin/heliofin/internal/team"
	"github.com/heliofin/heliofin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	loanRepo := loans.NewRepository(pool)
	loanService := loans.NewService(loanRepo)

	teamRepo := team.NewRepository(pool)
	snapshots := authz.NewProvider(nil, redisClient, cfg.SnapshotTTL, cfg.SnapshotStale, logger)
	teamService := team.NewService(teamRepo, snapshots, logger)
	snapshots.SetSource(teamService)

	overdueJob := jobs.OverdueScanHandler{Loans: loanService, Logger: logger}
	warmupJob := jobs.SnapshotWarmupHandler{Team: teamService, Snapshots: snapshots, Logger: logger}

	overdueTask, err := jobs.NewOverdueScanTask(jobs.OverdueScanPayload{Grace: 6 * time.Hour})
	if err != nil {
		logger.Error("build overdue task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskOverdueScan, Handler: overdueJob.Handle},
			{Type: jobs.TaskSnapshotWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "@every " + cfg.OverdueScanInterval.String(), Task: overdueTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 4 * * *", Task: jobs.NewSnapshotWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
