package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doGuarded(t *testing.T, path string, actor *Snapshot) int {
	t.Helper()
	mw := Middleware{Rules: Rules()}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if actor != nil {
		req = req.WithContext(ContextWithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	mw.Guard(okHandler()).ServeHTTP(rec, req)
	return rec.Code
}

func TestGuardRequiresActor(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, doGuarded(t, "/loans", nil))
}

func TestGuardAdminOverride(t *testing.T) {
	admin := Snapshot{UserID: "a1", Role: "admin"}
	require.Equal(t, http.StatusOK, doGuarded(t, "/loans", &admin))
	require.Equal(t, http.StatusOK, doGuarded(t, "/settings/categories", &admin))
}

func TestGuardDeniesWithoutPermission(t *testing.T) {
	actor := Snapshot{UserID: "u1", Role: "merchant", Matrix: Matrix{ModuleLoans: {View: true}}}
	require.Equal(t, http.StatusOK, doGuarded(t, "/loans", &actor))
	require.Equal(t, http.StatusForbidden, doGuarded(t, "/invoices", &actor))
	require.Equal(t, http.StatusForbidden, doGuarded(t, "/settings/categories", &actor))
}

func TestGuardFailOpenUnknownPath(t *testing.T) {
	actor := Snapshot{UserID: "u1", Role: "merchant"}
	require.Equal(t, http.StatusOK, doGuarded(t, "/totally/unknown", &actor))
}

func TestRequireAll(t *testing.T) {
	mw := Middleware{}
	actor := Snapshot{UserID: "u1", Role: "merchant", Matrix: Matrix{
		ModuleLoans:    {View: true, Manage: true},
		ModuleInvoices: {View: true},
	}}

	handler := mw.RequireAll(
		Requirement{ModuleLoans, ActionManage},
		Requirement{ModuleInvoices, ActionManage},
	)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/loans", nil)
	req = req.WithContext(ContextWithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyAdminBypass(t *testing.T) {
	mw := Middleware{}
	handler := mw.RequireAny(Requirement{ModuleUsers, ActionManage})(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	req = req.WithContext(ContextWithActor(req.Context(), Snapshot{UserID: "a1", Role: "admin"}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
