package team

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heliofin/heliofin/internal/authz"
)

// SnapshotInvalidator drops a user's cached actor snapshot. Satisfied by
// *authz.Provider.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Service holds team management logic and doubles as the authz matrix
// source.
type Service struct {
	repo       Repository
	invalidate SnapshotInvalidator
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a Service. invalidate may be nil in tests.
func NewService(repo Repository, invalidate SnapshotInvalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, invalidate: invalidate, logger: logger, now: time.Now}
}

// InviteRequest captures the fields needed to invite a member.
type InviteRequest struct {
	Email     string       `json:"email" validate:"required,email"`
	FirstName string       `json:"first_name" validate:"required"`
	LastName  string       `json:"last_name" validate:"required"`
	Role      string       `json:"role" validate:"required"`
	Matrix    authz.Matrix `json:"matrix,omitempty"`
}

// Invite creates a member record. When no matrix is supplied the member
// starts from the role's default grants.
func (s *Service) Invite(ctx context.Context, req InviteRequest) (Member, error) {
	matrix := req.Matrix
	if matrix == nil {
		matrix = defaultMatrix(req.Role)
	}
	m := Member{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Matrix:    authz.Normalize(matrix),
		InvitedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if err := s.repo.Insert(ctx, m); err != nil {
		return Member{}, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

// List returns all members.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.repo.List(ctx)
}

// Get fetches one member.
func (s *Service) Get(ctx context.Context, id string) (Member, error) {
	return s.repo.Get(ctx, id)
}

// SetRole changes a member's role and invalidates their snapshot.
func (s *Service) SetRole(ctx context.Context, id, role string) (Member, error) {
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return Member{}, err
	}
	s.dropSnapshot(ctx, id)
	return s.repo.Get(ctx, id)
}

// ReplaceMatrix swaps the member's permission matrix wholesale and
// invalidates their snapshot. Partial updates are not supported: clients
// send the full matrix every time.
func (s *Service) ReplaceMatrix(ctx context.Context, id string, matrix authz.Matrix) (Member, error) {
	if err := s.repo.ReplaceMatrix(ctx, id, authz.Normalize(matrix)); err != nil {
		return Member{}, err
	}
	s.dropSnapshot(ctx, id)
	return s.repo.Get(ctx, id)
}

// Remove deletes a member and invalidates their snapshot.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropSnapshot(ctx, id)
	return nil
}

// ActorSnapshot implements authz.MatrixSource.
func (s *Service) ActorSnapshot(ctx context.Context, userID string) (authz.Snapshot, error) {
	m, err := s.repo.Get(ctx, userID)
	if err != nil {
		return authz.Snapshot{}, err
	}
	return authz.Snapshot{UserID: m.ID, Role: m.Role, Matrix: m.Matrix}, nil
}

func (s *Service) dropSnapshot(ctx context.Context, id string) {
	if s.invalidate == nil {
		return
	}
	if err := s.invalidate.Invalidate(ctx, id); err != nil && s.logger != nil {
		s.logger.Warn("invalidate snapshot", slog.String("member_id", id), slog.Any("error", err))
	}
}

// defaultMatrix is the starting grant set for a role. Admin grants are
// informational only; admin actors bypass matrix checks entirely.
func defaultMatrix(role string) authz.Matrix {
	switch role {
	case RoleAdmin:
		return authz.FullMatrix()
	case RoleManager:
		m := authz.FullMatrix()
		m[authz.ModuleTeamMembers] = authz.Actions{View: true}
		return m
	case RoleCustomer:
		return authz.Matrix{
			authz.ModuleLoans:        {View: true},
			authz.ModuleMarketplace:  {View: true},
			authz.ModuleInvoices:     {View: true},
			authz.ModuleTransactions: {View: true},
		}
	default:
		return authz.Matrix{
			authz.ModuleLoans:       {View: true},
			authz.ModuleMarketplace: {View: true},
		}
	}
}
