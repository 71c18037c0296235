// Package team manages team members, their roles and their permission
// matrices. It is the system of record behind actor snapshots.
package team

import (
	"time"

	"github.com/heliofin/heliofin/internal/authz"
)

// Known roles. Role strings outside this set are accepted and treated as
// non-privileged; only RoleAdmin carries special meaning.
const (
	RoleAdmin    = authz.RoleAdmin
	RoleManager  = "manager"
	RoleAgent    = "agent"
	RoleCustomer = "customer"
)

// Member is one team member record. Matrix persists as a JSONB column and is
// replaced wholesale on update, never patched field by field.
type Member struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Role      string       `json:"role"`
	Matrix    authz.Matrix `json:"matrix"`
	InvitedAt time.Time    `json:"invited_at"`
	JoinedAt  *time.Time   `json:"joined_at,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}
