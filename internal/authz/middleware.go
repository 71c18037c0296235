package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heliofin/heliofin/internal/platform/httpx"
)

type actorContextKey struct{}

// ContextWithActor stores the actor snapshot in the context.
func ContextWithActor(ctx context.Context, snap Snapshot) context.Context {
	return context.WithValue(ctx, actorContextKey{}, snap)
}

// ActorFromContext extracts the actor snapshot from the context.
func ActorFromContext(ctx context.Context) (Snapshot, bool) {
	snap, ok := ctx.Value(actorContextKey{}).(Snapshot)
	return snap, ok
}

// Middleware wires authorization guards for HTTP handlers.
type Middleware struct {
	Rules  []Rule
	Logger *slog.Logger
}

// Guard authorizes the request path against the route rule table. Requests
// without an actor snapshot in context are rejected up front; for
// authenticated actors the admin role passes unconditionally, then
// CheckRoute decides. Paths absent from the table are authorized: the
// table is fail-open for routes it does not name.
func (m Middleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		if IsAdmin(actor.Role) {
			next.ServeHTTP(w, r)
			return
		}
		if !CheckRoute(r.URL.Path, actor.Matrix, actor.Role, m.Rules) {
			if m.Logger != nil {
				m.Logger.Warn("route denied", slog.String("path", r.URL.Path), slog.String("user_id", actor.UserID))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAny ensures the actor holds at least one of the requirements.
// Admins pass unconditionally.
func (m Middleware) RequireAny(reqs ...Requirement) func(http.Handler) http.Handler {
	return m.require(reqs, false)
}

// RequireAll ensures the actor holds every requirement. Admins pass
// unconditionally.
func (m Middleware) RequireAll(reqs ...Requirement) func(http.Handler) http.Handler {
	return m.require(reqs, true)
}

func (m Middleware) require(reqs []Requirement, requireAll bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(reqs) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
				return
			}
			if IsAdmin(actor.Role) {
				next.ServeHTTP(w, r)
				return
			}
			if !CheckPermissions(actor.Matrix, reqs, requireAll, Requirement{}) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
