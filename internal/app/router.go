package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/heliofin/heliofin/internal/auth"
	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/invoices"
	"github.com/heliofin/heliofin/internal/listings"
	"github.com/heliofin/heliofin/internal/loans"
	"github.com/heliofin/heliofin/internal/observability"
	"github.com/heliofin/heliofin/internal/quotes"
	"github.com/heliofin/heliofin/internal/shared"
	"github.com/heliofin/heliofin/internal/team"
	"github.com/heliofin/heliofin/internal/wallet"
	"github.com/heliofin/heliofin/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	Snapshots       *authz.Provider
	Authz           authz.Middleware
	AuthHandler     *auth.Handler
	LoanHandler     *loans.Handler
	QuoteHandler    *quotes.Handler
	ListingHandler  *listings.Handler
	InvoiceHandler  *invoices.Handler
	WalletHandler   *wallet.Handler
	TeamHandler     *team.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router for the API.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Snapshots:      params.Snapshots,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	// Everything below requires an authenticated actor; the guard also
	// enforces the route-level access rules before the per-handler
	// permission checks run.
	r.Group(func(r chi.Router) {
		r.Use(params.Authz.Guard)
		r.Route("/loans", params.LoanHandler.MountRoutes)
		r.Route("/quotes", params.QuoteHandler.MountRoutes)
		r.Route("/marketplace", params.ListingHandler.MountRoutes)
		r.Route("/invoices", params.InvoiceHandler.MountRoutes)
		r.Route("/wallet", params.WalletHandler.MountRoutes)
		r.Route("/team", params.TeamHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
