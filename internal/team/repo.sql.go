package team

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heliofin/heliofin/internal/authz"
	"github.com/heliofin/heliofin/internal/platform/db"
)

// SQLRepository provides PostgreSQL backed persistence. The permission
// matrix lives in a JSONB column keyed by module name.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

const memberColumns = `id, email, first_name, last_name, role, matrix, invited_at, joined_at, updated_at`

func scanMember(row pgx.Row) (Member, error) {
	var (
		m   Member
		raw []byte
	)
	err := row.Scan(
		&m.ID,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.Role,
		&raw,
		&m.InvitedAt,
		&m.JoinedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return Member{}, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m.Matrix); err != nil {
			return Member{}, err
		}
	}
	return m, nil
}

// Insert stores a new member. A duplicate email maps to ErrDuplicateEmail.
func (r *SQLRepository) Insert(ctx context.Context, m Member) error {
	raw, err := json.Marshal(m.Matrix)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO team_members (id, email, first_name, last_name, role, matrix, invited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Email, m.FirstName, m.LastName, m.Role, raw, m.InvitedAt,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// Get fetches a member by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM team_members WHERE id = $1`, id)
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

// GetByEmail fetches a member by email.
func (r *SQLRepository) GetByEmail(ctx context.Context, email string) (Member, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM team_members WHERE email = $1`, email)
	m, err := scanMember(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

// List returns all members ordered by invitation time.
func (r *SQLRepository) List(ctx context.Context) ([]Member, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+memberColumns+` FROM team_members ORDER BY invited_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateRole sets a member's role.
func (r *SQLRepository) UpdateRole(ctx context.Context, id, role string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE team_members SET role = $2, updated_at = now() WHERE id = $1`,
		id, role,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceMatrix overwrites the member's whole matrix.
func (r *SQLRepository) ReplaceMatrix(ctx context.Context, id string, matrix authz.Matrix) error {
	raw, err := json.Marshal(matrix)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE team_members SET matrix = $2, updated_at = now() WHERE id = $1`,
		id, raw,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a member.
func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
