// Package authz implements permission resolution for the platform: the
// per-module permission matrix carried by each actor, route-level access
// rules for the navigation paths, and the cached actor snapshot handed to
// request middleware. The resolution functions are pure and never throw;
// missing input degrades to a denied permission, never to an error.
package authz

// Module is one of the closed set of permissioned platform modules.
type Module string

const (
	ModuleUsers        Module = "users"
	ModuleLoans        Module = "loans"
	ModuleInvoices     Module = "invoices"
	ModuleMarketplace  Module = "marketplace"
	ModuleTransactions Module = "transactions"
	ModuleTeamMembers  Module = "team_members"
)

// Modules lists every permissioned module.
func Modules() []Module {
	return []Module{
		ModuleUsers,
		ModuleLoans,
		ModuleInvoices,
		ModuleMarketplace,
		ModuleTransactions,
		ModuleTeamMembers,
	}
}

// Action is a capability within a module.
type Action string

const (
	ActionView   Action = "view"
	ActionManage Action = "manage"
)

// Actions records the capabilities granted on one module. Both fields are
// always persisted together; a module entry is never partial.
type Actions struct {
	View   bool `json:"view"`
	Manage bool `json:"manage"`
}

// Matrix maps each module to the actions granted on it. A nil Matrix means
// "not authenticated" and denies everything. A Matrix is replaced wholesale
// when the actor's record refreshes, never mutated in place.
type Matrix map[Module]Actions

// RoleAdmin overrides every permission check and every admin-only route
// regardless of matrix contents. The comparison is exact; there is no role
// hierarchy.
const RoleAdmin = "admin"

// IsAdmin reports whether the role is the admin override role.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// HasPermission reports whether the matrix grants the action on the module.
// A nil matrix, an absent module entry or an unknown action all resolve to
// false.
func HasPermission(m Matrix, module Module, action Action) bool {
	if m == nil {
		return false
	}
	actions, ok := m[module]
	if !ok {
		return false
	}
	switch action {
	case ActionView:
		return actions.View
	case ActionManage:
		return actions.Manage
	default:
		return false
	}
}

// Requirement names one module/action pair a caller must hold.
type Requirement struct {
	Module Module `json:"module"`
	Action Action `json:"action"`
}

// CheckPermissions evaluates a list of requirements against the matrix,
// combining with AND when requireAll is set and OR otherwise. An empty list
// does not evaluate vacuously: it falls back to the single default pair the
// call site supplies. Callers that want a plain single-permission check pass
// no requirements and their module/action as the default.
func CheckPermissions(m Matrix, reqs []Requirement, requireAll bool, def Requirement) bool {
	if len(reqs) == 0 {
		return HasPermission(m, def.Module, def.Action)
	}
	if requireAll {
		for _, req := range reqs {
			if !HasPermission(m, req.Module, req.Action) {
				return false
			}
		}
		return true
	}
	for _, req := range reqs {
		if HasPermission(m, req.Module, req.Action) {
			return true
		}
	}
	return false
}

// FullMatrix grants view and manage on every module. Used when seeding admin
// team members so their matrix matches their effective capabilities.
func FullMatrix() Matrix {
	m := make(Matrix, len(Modules()))
	for _, module := range Modules() {
		m[module] = Actions{View: true, Manage: true}
	}
	return m
}

// Normalize returns a complete copy of the matrix with an explicit entry for
// every module. Absent modules become {false, false}; unknown keys are
// dropped. Persisting normalized matrices keeps the "no partial records"
// invariant intact across stores.
func Normalize(m Matrix) Matrix {
	out := make(Matrix, len(Modules()))
	for _, module := range Modules() {
		out[module] = m[module]
	}
	return out
}
