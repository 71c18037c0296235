// Package auth implements credential checks and the login/logout endpoints.
package auth

import "time"

// User is an authenticated account. ID matches the team member ID so that
// actor snapshots resolve against the same record.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
