package invoices

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

const invoiceColumns = `id, issuer_id, customer_id, reference, amount, currency, status, due_at, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID,
		&inv.IssuerID,
		&inv.CustomerID,
		&inv.Reference,
		&inv.Amount,
		&inv.Currency,
		&inv.RawStatus,
		&inv.DueAt,
		&inv.PaidAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return Invoice{}, err
	}
	inv.normalize()
	return inv, nil
}

// Insert stores a new invoice.
func (r *SQLRepository) Insert(ctx context.Context, inv Invoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO invoices (id, issuer_id, customer_id, reference, amount, currency, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.IssuerID, inv.CustomerID, inv.Reference, inv.Amount, inv.Currency, inv.RawStatus, inv.DueAt,
	)
	return err
}

// Get fetches an invoice by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (Invoice, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrNotFound
	}
	return inv, err
}

// List returns invoices newest first, optionally scoped to a customer.
func (r *SQLRepository) List(ctx context.Context, customerID string) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE ($1 = '' OR customer_id = $1)
		ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// MarkPaid flips an invoice to paid.
func (r *SQLRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE invoices SET status = $2, paid_at = $3, updated_at = now() WHERE id = $1`,
		id, RawPaid, paidAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
