package team

import (
	"context"
	"errors"

	"github.com/heliofin/heliofin/internal/authz"
)

var (
	ErrNotFound       = errors.New("team: member not found")
	ErrDuplicateEmail = errors.New("team: email already invited")
)

// Repository is the persistence contract for team members.
type Repository interface {
	Insert(ctx context.Context, m Member) error
	Get(ctx context.Context, id string) (Member, error)
	GetByEmail(ctx context.Context, email string) (Member, error)
	List(ctx context.Context) ([]Member, error)
	UpdateRole(ctx context.Context, id, role string) error
	ReplaceMatrix(ctx context.Context, id string, matrix authz.Matrix) error
	Delete(ctx context.Context, id string) error
}
