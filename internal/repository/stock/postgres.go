package stock

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Get(ctx context.Context, variantID, sizeID string) (*domain.StockRecord, error) {
	const q = `
SELECT sz.id::text, v.id::text, p.id::text, st.id::text, st.name,
       sz.name, v.sku, p.name, COALESCE(p.image_url, ''),
       sz.quantity, sz.price_cents, sz.discount_pct, p.shipping_fee_cents
FROM sizes sz
JOIN variants v ON v.id = sz.variant_id
JOIN products p ON p.id = v.product_id
JOIN stores st ON st.id = p.store_id
WHERE sz.variant_id = $1 AND sz.id = $2
`
	var rec domain.StockRecord
	err := r.pool.QueryRow(ctx, q, variantID, sizeID).Scan(
		&rec.SizeID,
		&rec.VariantID,
		&rec.ProductID,
		&rec.StoreID,
		&rec.StoreName,
		&rec.Size,
		&rec.SKU,
		&rec.ProductName,
		&rec.ImageURL,
		&rec.Quantity,
		&rec.PriceCents,
		&rec.DiscountPct,
		&rec.ShippingFeeCents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("stock repo: get variant_id=%s size_id=%s not found", variantID, sizeID)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("stock repo: get variant_id=%s size_id=%s error=%v", variantID, sizeID, err)
		return nil, err
	}
	return &rec, nil
}
