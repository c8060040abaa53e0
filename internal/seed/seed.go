package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DemoShopperID is the shopper the seeder provisions an address for. Pair it
// with a token from auth.NewToken to exercise the API locally.
var DemoShopperID = uuid.NewString()

type sizeSeed struct {
	Name        string
	Quantity    int
	PriceCents  int64
	DiscountPct int
}

type productSeed struct {
	Name             string
	SKU              string
	ShippingFeeCents int64
	Sizes            []sizeSeed
}

type storeSeed struct {
	Name            string
	ShippingService string
	Products        []productSeed
}

// Apply inserts basic seed data for manual testing: two stores so a single
// cart exercises the per-store order partitioning. Idempotent via ON CONFLICT
// on the variant SKUs.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	stores := []storeSeed{
		{
			Name:            "North Threads",
			ShippingService: "standard",
			Products: []productSeed{
				{
					Name:             "Wool Sweater",
					SKU:              "NT-SWEATER",
					ShippingFeeCents: 500,
					Sizes: []sizeSeed{
						{Name: "M", Quantity: 20, PriceCents: 4999, DiscountPct: 0},
						{Name: "L", Quantity: 12, PriceCents: 4999, DiscountPct: 10},
					},
				},
			},
		},
		{
			Name:            "City Soles",
			ShippingService: "express",
			Products: []productSeed{
				{
					Name:             "Canvas Sneaker",
					SKU:              "CS-SNEAKER",
					ShippingFeeCents: 700,
					Sizes: []sizeSeed{
						{Name: "42", Quantity: 8, PriceCents: 6499, DiscountPct: 15},
						{Name: "43", Quantity: 5, PriceCents: 6499, DiscountPct: 15},
					},
				},
			},
		},
	}

	for _, s := range stores {
		if err := seedStore(ctx, pool, s); err != nil {
			return fmt.Errorf("seed store %s: %w", s.Name, err)
		}
	}

	if err := seedAddress(ctx, pool, DemoShopperID); err != nil {
		return fmt.Errorf("seed address: %w", err)
	}

	return nil
}

func seedStore(ctx context.Context, pool *pgxpool.Pool, s storeSeed) error {
	var storeID string
	if err := pool.QueryRow(ctx, `
SELECT id::text FROM stores WHERE name = $1
`, s.Name).Scan(&storeID); err != nil {
		if err := pool.QueryRow(ctx, `
INSERT INTO stores (name, shipping_service)
VALUES ($1, $2)
RETURNING id::text
`, s.Name, s.ShippingService).Scan(&storeID); err != nil {
			return err
		}
	}

	for _, p := range s.Products {
		var productID string
		if err := pool.QueryRow(ctx, `
INSERT INTO products (store_id, name, shipping_fee_cents)
SELECT $1, $2, $3
WHERE NOT EXISTS (SELECT 1 FROM variants WHERE sku = $4)
RETURNING id::text
`, storeID, p.Name, p.ShippingFeeCents, p.SKU).Scan(&productID); err != nil {
			// Already seeded.
			continue
		}

		var variantID string
		if err := pool.QueryRow(ctx, `
INSERT INTO variants (product_id, sku)
VALUES ($1, $2)
RETURNING id::text
`, productID, p.SKU).Scan(&variantID); err != nil {
			return err
		}

		for _, sz := range p.Sizes {
			if _, err := pool.Exec(ctx, `
INSERT INTO sizes (variant_id, name, quantity, price_cents, discount_pct)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (variant_id, name) DO UPDATE SET
    quantity = EXCLUDED.quantity,
    price_cents = EXCLUDED.price_cents,
    discount_pct = EXCLUDED.discount_pct
`, variantID, sz.Name, sz.Quantity, sz.PriceCents, sz.DiscountPct); err != nil {
				return err
			}
		}
	}

	return nil
}

func seedAddress(ctx context.Context, pool *pgxpool.Pool, shopperID string) error {
	_, err := pool.Exec(ctx, `
INSERT INTO addresses (shopper_id, first_name, last_name, country, city, street_name, postal_code, is_default)
VALUES ($1, 'Demo', 'Shopper', 'US', 'Portland', '100 Main St', '97201', true)
`, shopperID)
	return err
}
