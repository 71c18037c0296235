package loans

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLRepository provides PostgreSQL backed persistence.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

const loanColumns = `id, borrower_id, user_first_name, user_last_name, amount, currency, tenure_months, status, date_requested, next_payment_at, created_at, updated_at`

func scanLoan(row pgx.Row) (Loan, error) {
	var loan Loan
	err := row.Scan(
		&loan.ID,
		&loan.BorrowerID,
		&loan.UserFirstName,
		&loan.UserLastName,
		&loan.Amount,
		&loan.Currency,
		&loan.TenureMonths,
		&loan.RawStatus,
		&loan.DateRequested,
		&loan.NextPaymentAt,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	)
	if err != nil {
		return Loan{}, err
	}
	loan.normalize()
	return loan, nil
}

// Insert stores a new loan.
func (r *SQLRepository) Insert(ctx context.Context, loan Loan) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO loans (id, borrower_id, user_first_name, user_last_name, amount, currency, tenure_months, status, date_requested)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		loan.ID,
		loan.BorrowerID,
		loan.UserFirstName,
		loan.UserLastName,
		loan.Amount,
		loan.Currency,
		loan.TenureMonths,
		loan.RawStatus,
		loan.DateRequested,
	)
	return err
}

// Get fetches a loan by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (Loan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrNotFound
	}
	return loan, err
}

// List returns loans newest first, optionally scoped to a borrower.
func (r *SQLRepository) List(ctx context.Context, borrowerID string) ([]Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY created_at DESC`
	args := []any{}
	if borrowerID != "" {
		query = `SELECT ` + loanColumns + ` FROM loans WHERE borrower_id = $1 ORDER BY created_at DESC`
		args = append(args, borrowerID)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	return out, rows.Err()
}

// UpdateStatus moves a loan to a new raw status, optionally updating the
// next payment date.
func (r *SQLRepository) UpdateStatus(ctx context.Context, id, rawStatus string, nextPaymentAt *time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE loans
		SET status = $2, next_payment_at = COALESCE($3, next_payment_at), updated_at = now()
		WHERE id = $1`,
		id, rawStatus, nextPaymentAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDueBefore returns loans in the given raw status whose next payment
// date falls before the cutoff. Used by the overdue sweep.
func (r *SQLRepository) ListDueBefore(ctx context.Context, rawStatus string, cutoff time.Time) ([]Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE status = $1 AND next_payment_at IS NOT NULL AND next_payment_at < $2
		ORDER BY next_payment_at`,
		rawStatus, cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loan)
	}
	return out, rows.Err()
}
