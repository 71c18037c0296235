package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRouteExactWins(t *testing.T) {
	rules := Compile([]Rule{
		{Pattern: "/loans/[id]"},
		{Pattern: "/loans/new"},
	})
	rule := ResolveRoute("/loans/new", rules)
	require.NotNil(t, rule)
	require.Equal(t, "/loans/new", rule.Pattern)
}

func TestResolveRouteDynamicSegments(t *testing.T) {
	rules := Compile([]Rule{{Pattern: "/users/[id]"}})

	require.NotNil(t, ResolveRoute("/users/abc123", rules))
	require.NotNil(t, ResolveRoute("/users/999", rules))
	require.Nil(t, ResolveRoute("/users/abc/extra", rules))
	require.Nil(t, ResolveRoute("/users", rules))
	require.Nil(t, ResolveRoute("/accounts/abc123", rules))
}

func TestResolveRouteDeclarationOrder(t *testing.T) {
	rules := Compile([]Rule{
		{Pattern: "/a/[x]", AdminOnly: true},
		{Pattern: "/[y]/b"},
	})
	// "/a/b" satisfies both dynamic patterns; the first declared wins.
	rule := ResolveRoute("/a/b", rules)
	require.NotNil(t, rule)
	require.Equal(t, "/a/[x]", rule.Pattern)
}

func TestResolveRouteUncompiled(t *testing.T) {
	rules := []Rule{{Pattern: "/loans/[id]"}}
	require.NotNil(t, ResolveRoute("/loans/77", rules))
}

func TestCheckRouteFailOpen(t *testing.T) {
	rules := Rules()
	require.True(t, CheckRoute("/unregistered/path", nil, "", rules))
	require.True(t, CheckRoute("/unregistered/path", FullMatrix(), "admin", rules))
}

func TestCheckRouteAdminOnly(t *testing.T) {
	rules := Rules()
	// Admin-only overrides the matrix entirely, in both directions.
	require.True(t, CheckRoute("/settings/categories", nil, "admin", rules))
	require.False(t, CheckRoute("/settings/categories", FullMatrix(), "merchant", rules))
	require.False(t, CheckRoute("/settings/categories", FullMatrix(), "Admin", rules))
}

func TestCheckRouteJobsAdminOnly(t *testing.T) {
	rules := Rules()
	require.True(t, CheckRoute("/jobs", nil, "admin", rules))
	require.True(t, CheckRoute("/jobs/overdue-scan", nil, "admin", rules))
	require.False(t, CheckRoute("/jobs", FullMatrix(), "merchant", rules))
	require.False(t, CheckRoute("/jobs/overdue-scan", FullMatrix(), "merchant", rules))
}

func TestCheckRouteRequirements(t *testing.T) {
	rules := Rules()

	loansOnly := Matrix{ModuleLoans: {View: true}}
	require.True(t, CheckRoute("/loans", loansOnly, "merchant", rules))
	require.True(t, CheckRoute("/loans/abc123", loansOnly, "merchant", rules))
	require.False(t, CheckRoute("/invoices", loansOnly, "merchant", rules))
	require.False(t, CheckRoute("/loans/abc123/offer", loansOnly, "merchant", rules))
	require.False(t, CheckRoute("/loans", nil, "merchant", rules))
}

func TestCheckRouteRequireAny(t *testing.T) {
	rules := Rules()
	// /quotes wants marketplace.view or loans.view.
	require.True(t, CheckRoute("/quotes", Matrix{ModuleLoans: {View: true}}, "merchant", rules))
	require.True(t, CheckRoute("/quotes", Matrix{ModuleMarketplace: {View: true}}, "merchant", rules))
	require.False(t, CheckRoute("/quotes", Matrix{ModuleInvoices: {View: true}}, "merchant", rules))
}

func TestCheckRouteNoRequirements(t *testing.T) {
	rules := Compile([]Rule{{Pattern: "/about"}})
	require.True(t, CheckRoute("/about", nil, "", rules))
}
