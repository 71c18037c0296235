package team

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/heliofin/heliofin/internal/authz"
)

type memoryRepo struct {
	members map[string]Member
	byEmail map[string]string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{members: make(map[string]Member), byEmail: make(map[string]string)}
}

func (m *memoryRepo) Insert(_ context.Context, member Member) error {
	if _, exists := m.byEmail[member.Email]; exists {
		return ErrDuplicateEmail
	}
	m.members[member.ID] = member
	m.byEmail[member.Email] = member.ID
	return nil
}

func (m *memoryRepo) Get(_ context.Context, id string) (Member, error) {
	member, ok := m.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return member, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (Member, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return Member{}, ErrNotFound
	}
	return m.members[id], nil
}

func (m *memoryRepo) List(_ context.Context) ([]Member, error) {
	out := make([]Member, 0, len(m.members))
	for _, member := range m.members {
		out = append(out, member)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InvitedAt.After(out[j].InvitedAt) })
	return out, nil
}

func (m *memoryRepo) UpdateRole(_ context.Context, id, role string) error {
	member, ok := m.members[id]
	if !ok {
		return ErrNotFound
	}
	member.Role = role
	m.members[id] = member
	return nil
}

func (m *memoryRepo) ReplaceMatrix(_ context.Context, id string, matrix authz.Matrix) error {
	member, ok := m.members[id]
	if !ok {
		return ErrNotFound
	}
	member.Matrix = matrix
	m.members[id] = member
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	member, ok := m.members[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byEmail, member.Email)
	delete(m.members, id)
	return nil
}

type recordingInvalidator struct {
	dropped []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) error {
	r.dropped = append(r.dropped, userID)
	return nil
}

func TestInviteDefaultsMatrixFromRole(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	svc.now = func() time.Time { return time.Date(2026, time.May, 12, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	m, err := svc.Invite(ctx, InviteRequest{
		Email: "Ada@Example.com", FirstName: "Ada", LastName: "Obi", Role: RoleCustomer,
	})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", m.Email)
	require.True(t, m.Matrix[authz.ModuleLoans].View)
	require.False(t, m.Matrix[authz.ModuleLoans].Manage)
	require.False(t, m.Matrix[authz.ModuleTeamMembers].View)
	// Normalize fills every module explicitly
	require.Len(t, m.Matrix, len(authz.Modules()))
}

func TestInviteDuplicateEmail(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	req := InviteRequest{Email: "one@example.com", FirstName: "A", LastName: "B", Role: RoleAgent}
	_, err := svc.Invite(ctx, req)
	require.NoError(t, err)
	_, err = svc.Invite(ctx, req)
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestReplaceMatrixInvalidatesSnapshot(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := NewService(newMemoryRepo(), inv, nil)
	ctx := context.Background()

	m, err := svc.Invite(ctx, InviteRequest{Email: "a@b.co", FirstName: "A", LastName: "B", Role: RoleAgent})
	require.NoError(t, err)

	updated, err := svc.ReplaceMatrix(ctx, m.ID, authz.Matrix{
		authz.ModuleLoans: {View: true, Manage: true},
	})
	require.NoError(t, err)
	require.True(t, updated.Matrix[authz.ModuleLoans].Manage)
	// the replacement is wholesale: grants absent from the new matrix are gone
	require.False(t, updated.Matrix[authz.ModuleMarketplace].View)
	require.Equal(t, []string{m.ID}, inv.dropped)
}

func TestSetRoleInvalidatesSnapshot(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := NewService(newMemoryRepo(), inv, nil)
	ctx := context.Background()

	m, err := svc.Invite(ctx, InviteRequest{Email: "a@b.co", FirstName: "A", LastName: "B", Role: RoleAgent})
	require.NoError(t, err)

	updated, err := svc.SetRole(ctx, m.ID, RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, updated.Role)
	require.Equal(t, []string{m.ID}, inv.dropped)
}

func TestActorSnapshot(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, nil)
	ctx := context.Background()

	m, err := svc.Invite(ctx, InviteRequest{Email: "a@b.co", FirstName: "A", LastName: "B", Role: RoleManager})
	require.NoError(t, err)

	snap, err := svc.ActorSnapshot(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, m.ID, snap.UserID)
	require.Equal(t, RoleManager, snap.Role)
	require.True(t, snap.Matrix[authz.ModuleLoans].Manage)
	require.False(t, snap.Matrix[authz.ModuleTeamMembers].Manage)

	_, err = svc.ActorSnapshot(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveInvalidates(t *testing.T) {
	inv := &recordingInvalidator{}
	svc := NewService(newMemoryRepo(), inv, nil)
	ctx := context.Background()

	m, err := svc.Invite(ctx, InviteRequest{Email: "a@b.co", FirstName: "A", LastName: "B", Role: RoleAgent})
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, m.ID))
	require.Equal(t, []string{m.ID}, inv.dropped)

	_, err = svc.Get(ctx, m.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
