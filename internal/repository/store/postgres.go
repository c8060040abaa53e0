package store

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

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Store, error) {
	const q = `
SELECT id::text, name, active, shipping_service, delivery_min_days, delivery_max_days
FROM stores
WHERE id = $1
`
	var s domain.Store
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&s.ID,
		&s.Name,
		&s.Active,
		&s.ShippingService,
		&s.DeliveryMinDays,
		&s.DeliveryMaxDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
