package authz

import "strings"

// Rule associates a navigation path pattern with the permissions it
// requires. Patterns are literal segments plus bracketed dynamic segments,
// e.g. "/loans/[id]". Rules are configuration: declared once at startup and
// immutable afterwards. Declaration order matters for dynamic matching.
type Rule struct {
	Pattern      string
	Requirements []Requirement
	// RequireAny switches the combinator from require-all (the default)
	// to require-any.
	RequireAny bool
	// AdminOnly short-circuits every other check: only the admin role
	// passes, whatever the matrix says.
	AdminOnly bool

	segments []patternSegment
}

type patternSegment struct {
	literal  string
	wildcard bool
}

func compilePattern(pattern string) []patternSegment {
	parts := strings.Split(pattern, "/")
	segments := make([]patternSegment, len(parts))
	for i, part := range parts {
		if strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]") {
			segments[i] = patternSegment{wildcard: true}
			continue
		}
		segments[i] = patternSegment{literal: part}
	}
	return segments
}

func isDynamic(segments []patternSegment) bool {
	for _, seg := range segments {
		if seg.wildcard {
			return true
		}
	}
	return false
}

// Compile precomputes the segment tokens for each rule so per-request
// matching does not re-split patterns. Matching behavior is identical for
// uncompiled rules; this is only a load-time optimization.
func Compile(rules []Rule) []Rule {
	compiled := make([]Rule, len(rules))
	for i, rule := range rules {
		rule.segments = compilePattern(rule.Pattern)
		compiled[i] = rule
	}
	return compiled
}

func (r *Rule) compiled() []patternSegment {
	if r.segments != nil {
		return r.segments
	}
	return compilePattern(r.Pattern)
}

func matchSegments(segments []patternSegment, parts []string) bool {
	if len(segments) != len(parts) {
		return false
	}
	for i, seg := range segments {
		if seg.wildcard {
			continue
		}
		if seg.literal != parts[i] {
			return false
		}
	}
	return true
}

// ResolveRoute finds the rule governing a path. Exact pattern matches win
// outright; otherwise rules with dynamic segments are tried in declaration
// order, requiring equal segment counts with every literal segment equal and
// every bracketed segment matching any value. Returns nil when no rule
// matches; callers treat that as authorized.
func ResolveRoute(path string, rules []Rule) *Rule {
	for i := range rules {
		if rules[i].Pattern == path {
			return &rules[i]
		}
	}
	parts := strings.Split(path, "/")
	for i := range rules {
		segments := rules[i].compiled()
		if !isDynamic(segments) {
			continue
		}
		if matchSegments(segments, parts) {
			return &rules[i]
		}
	}
	return nil
}

// CheckRoute reports whether an actor with the given matrix and role may
// access the path. An unmatched path is authorized: the rule table is
// fail-open for routes it does not name, so every new path must be added
// here before it carries anything sensitive. Admin-only rules reduce to a
// role equality check; rules with requirements delegate to CheckPermissions
// with the rule's combinator; a matched rule with no requirements
// authorizes.
func CheckRoute(path string, m Matrix, role string, rules []Rule) bool {
	rule := ResolveRoute(path, rules)
	if rule == nil {
		return true
	}
	if rule.AdminOnly {
		return role == RoleAdmin
	}
	if len(rule.Requirements) > 0 {
		return CheckPermissions(m, rule.Requirements, !rule.RequireAny, Requirement{})
	}
	return true
}

// Rules is the static route table for the platform navigation paths. Order
// matters: dynamic patterns are matched in the order declared here.
func Rules() []Rule {
	return Compile([]Rule{
		{Pattern: "/loans", Requirements: []Requirement{{ModuleLoans, ActionView}}},
		{Pattern: "/loans/[id]", Requirements: []Requirement{{ModuleLoans, ActionView}}},
		{Pattern: "/loans/[id]/offer", Requirements: []Requirement{{ModuleLoans, ActionManage}}},
		{Pattern: "/invoices", Requirements: []Requirement{{ModuleInvoices, ActionView}}},
		{Pattern: "/invoices/[id]", Requirements: []Requirement{{ModuleInvoices, ActionView}}},
		{Pattern: "/marketplace", Requirements: []Requirement{{ModuleMarketplace, ActionView}}},
		{Pattern: "/marketplace/[id]", Requirements: []Requirement{{ModuleMarketplace, ActionView}}},
		{Pattern: "/quotes", Requirements: []Requirement{{ModuleMarketplace, ActionView}, {ModuleLoans, ActionView}}, RequireAny: true},
		{Pattern: "/quotes/[id]", Requirements: []Requirement{{ModuleMarketplace, ActionView}, {ModuleLoans, ActionView}}, RequireAny: true},
		{Pattern: "/wallet", Requirements: []Requirement{{ModuleTransactions, ActionView}}},
		{Pattern: "/transactions", Requirements: []Requirement{{ModuleTransactions, ActionView}}},
		{Pattern: "/transactions/[id]", Requirements: []Requirement{{ModuleTransactions, ActionView}}},
		{Pattern: "/users", Requirements: []Requirement{{ModuleUsers, ActionView}}},
		{Pattern: "/users/[id]", Requirements: []Requirement{{ModuleUsers, ActionView}}},
		{Pattern: "/team", Requirements: []Requirement{{ModuleTeamMembers, ActionView}}},
		{Pattern: "/team/[id]", Requirements: []Requirement{{ModuleTeamMembers, ActionManage}}},
		{Pattern: "/settings", AdminOnly: true},
		{Pattern: "/settings/categories", AdminOnly: true},
		{Pattern: "/settings/[section]", AdminOnly: true},
		{Pattern: "/jobs", AdminOnly: true},
		{Pattern: "/jobs/[action]", AdminOnly: true},
	})
}
