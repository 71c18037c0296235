package listings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heliofin/heliofin/internal/platform/db"
)

// SQLRepository provides PostgreSQL backed persistence.
type SQLRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *SQLRepository {
	return &SQLRepository{pool: pool}
}

const listingColumns = `id, provider_id, sku, name, description, price, currency, quantity, status, created_at, updated_at`

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing
	err := row.Scan(
		&l.ID,
		&l.ProviderID,
		&l.SKU,
		&l.Name,
		&l.Description,
		&l.Price,
		&l.Currency,
		&l.Quantity,
		&l.RawStatus,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return Listing{}, err
	}
	l.normalize()
	return l, nil
}

// Insert stores a new listing. The (provider_id, sku) pair is unique.
func (r *SQLRepository) Insert(ctx context.Context, l Listing) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO listings (id, provider_id, sku, name, description, price, currency, quantity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		l.ID, l.ProviderID, l.SKU, l.Name, l.Description, l.Price, l.Currency, l.Quantity, l.RawStatus,
	)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateSKU
	}
	return err
}

// Get fetches a listing by ID.
func (r *SQLRepository) Get(ctx context.Context, id string) (Listing, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	return l, err
}

// List returns listings newest first, optionally scoped to a provider.
func (r *SQLRepository) List(ctx context.Context, providerID string) ([]Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+` FROM listings
		WHERE ($1 = '' OR provider_id = $1)
		ORDER BY created_at DESC`,
		providerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Update sets the listing status and quantity.
func (r *SQLRepository) Update(ctx context.Context, id, rawStatus string, quantity int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE listings SET status = $2, quantity = $3, updated_at = now() WHERE id = $1`,
		id, rawStatus, quantity,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
