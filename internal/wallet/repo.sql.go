package wallet

import (
	"context"
	"errors"

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

const txColumns = `id, owner_id, direction, amount, currency, reference, status, created_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var tx Transaction
	err := row.Scan(
		&tx.ID,
		&tx.OwnerID,
		&tx.Direction,
		&tx.Amount,
		&tx.Currency,
		&tx.Reference,
		&tx.RawStatus,
		&tx.CreatedAt,
	)
	if err != nil {
		return Transaction{}, err
	}
	tx.normalize()
	return tx, nil
}

// Insert stores a new transaction.
func (r *SQLRepository) Insert(ctx context.Context, tx Transaction) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wallet_transactions (id, owner_id, direction, amount, currency, reference, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.OwnerID, tx.Direction, tx.Amount, tx.Currency, tx.Reference, tx.RawStatus, tx.CreatedAt,
	)
	return err
}

// Get fetches a transaction by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+txColumns+` FROM wallet_transactions WHERE id = $1`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	return tx, err
}

// List returns transactions newest first, optionally scoped to an owner.
func (r *SQLRepository) List(ctx context.Context, ownerID string) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+txColumns+` FROM wallet_transactions
		WHERE ($1 = '' OR owner_id = $1)
		ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// UpdateStatus records the processor's settlement verdict.
func (r *SQLRepository) UpdateStatus(ctx context.Context, id, rawStatus string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE wallet_transactions SET status = $2 WHERE id = $1`,
		id, rawStatus,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
