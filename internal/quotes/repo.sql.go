package quotes

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

const quoteColumns = `id, customer_id, provider_id, listing_id, quantity, message, quoted_price, currency, status, created_at, updated_at`

func scanQuote(row pgx.Row) (QuoteRequest, error) {
	var q QuoteRequest
	err := row.Scan(
		&q.ID,
		&q.CustomerID,
		&q.ProviderID,
		&q.ListingID,
		&q.Quantity,
		&q.Message,
		&q.QuotedPrice,
		&q.Currency,
		&q.RawStatus,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return QuoteRequest{}, err
	}
	q.normalize()
	return q, nil
}

// Insert stores a new quote request.
func (r *SQLRepository) Insert(ctx context.Context, q QuoteRequest) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quote_requests (id, customer_id, provider_id, listing_id, quantity, message, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID, q.CustomerID, q.ProviderID, q.ListingID, q.Quantity, q.Message, q.Currency, q.RawStatus,
	)
	return err
}

// Get fetches a quote request by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (QuoteRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quote_requests WHERE id = $1`, id)
	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return QuoteRequest{}, ErrNotFound
	}
	return q, err
}

// List returns quote requests newest first, optionally scoped by customer
// or provider.
func (r *SQLRepository) List(ctx context.Context, customerID, providerID string) ([]QuoteRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+quoteColumns+` FROM quote_requests
		WHERE ($1 = '' OR customer_id = $1)
		  AND ($2 = '' OR provider_id = $2)
		ORDER BY created_at DESC`,
		customerID, providerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []QuoteRequest
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Update moves a quote request to a new status, optionally setting the
// quoted price.
func (r *SQLRepository) Update(ctx context.Context, id, rawStatus string, quotedPrice *float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quote_requests
		SET status = $2, quoted_price = COALESCE($3, quoted_price), updated_at = now()
		WHERE id = $1`,
		id, rawStatus, quotedPrice,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
