package address

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetDefaultByShopper(ctx context.Context, shopperID string) (*domain.Address, error) {
	const q = `
SELECT id::text, shopper_id::text, first_name, last_name, country, city, street_name, postal_code, COALESCE(phone, ''), is_default
FROM addresses
WHERE shopper_id = $1 AND is_default
ORDER BY created_at DESC
LIMIT 1
`
	var a domain.Address
	err := r.pool.QueryRow(ctx, q, shopperID).Scan(
		&a.ID,
		&a.ShopperID,
		&a.FirstName,
		&a.LastName,
		&a.Country,
		&a.City,
		&a.StreetName,
		&a.PostalCode,
		&a.Phone,
		&a.Default,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
