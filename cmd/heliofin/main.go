package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/heliofin/heliofin/internal/app"
	"github.com/heliofin/heliofin/internal/auth"
	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/invoices"
	"github.com/heliofin/heliofin/internal/listings"
	"github.com/heliofin/heliofin/internal/loans"
	"github.com/heliofin/heliofin/internal/observability"
	"github.com/heliofin/heliofin/internal/platform/cache"
	"github.com/heliofin/heliofin/internal/platform/db"
	"github.com/heliofin/heliofin/internal/quotes"
	"github.com/heliofin/heliofin/internal/shared"
	"github.com/heliofin/heliofin/internal/team"
	"github.com/heliofin/heliofin/internal/wallet"
	"github.com/heliofin/heliofin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "heliofin_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	teamRepo := team.NewRepository(dbpool)
	snapshots := authz.NewProvider(nil, redisClient, cfg.SnapshotTTL, cfg.SnapshotStale, logger)
	teamService := team.NewService(teamRepo, snapshots, logger)
	snapshots.SetSource(teamService)

	authzMiddleware := authz.Middleware{Rules: authz.Rules(), Logger: logger}

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, snapshots)

	loanRepo := loans.NewRepository(dbpool)
	loanService := loans.NewService(loanRepo)
	loanHandler := loans.NewHandler(logger, loanService, authzMiddleware)

	quoteRepo := quotes.NewRepository(dbpool)
	quoteService := quotes.NewService(quoteRepo)
	quoteHandler := quotes.NewHandler(logger, quoteService, authzMiddleware)

	listingRepo := listings.NewRepository(dbpool)
	listingService := listings.NewService(listingRepo)
	listingHandler := listings.NewHandler(logger, listingService, authzMiddleware)

	invoiceRepo := invoices.NewRepository(dbpool)
	invoiceService := invoices.NewService(invoiceRepo)
	invoiceHandler := invoices.NewHandler(logger, invoiceService, authzMiddleware)

	walletRepo := wallet.NewRepository(dbpool)
	walletService := wallet.NewService(walletRepo)
	walletHandler := wallet.NewHandler(logger, walletService, authzMiddleware)

	teamHandler := team.NewHandler(logger, teamService, authzMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	metrics := observability.NewMetrics()
	snapshots.SetMetrics(metrics)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		Snapshots:      snapshots,
		Authz:          authzMiddleware,
		AuthHandler:    authHandler,
		LoanHandler:    loanHandler,
		QuoteHandler:   quoteHandler,
		ListingHandler: listingHandler,
		InvoiceHandler: invoiceHandler,
		WalletHandler:  walletHandler,
		TeamHandler:    teamHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
