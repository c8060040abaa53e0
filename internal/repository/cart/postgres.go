package cart

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

const cartColumns = `id::text, shopper_id::text, subtotal_cents, shipping_cents, coupon_code, coupon_discount_cents, total_cents, created_at, updated_at`

func (r *postgresRepo) GetOrCreateByShopper(ctx context.Context, shopperID string) (*domain.Cart, error) {
	// Lazy create: the shopper<->cart relationship is 1:1 and stable, so the
	// row is inserted on first read and never deleted afterwards. The common
	// path is a plain SELECT so repeated views take no row lock and write no
	// new row version.
	const sel = `
SELECT ` + cartColumns + `
FROM carts
WHERE shopper_id = $1
`
	cart, err := r.fetchCart(ctx, sel, shopperID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// First view. A concurrent first view may win the unique constraint; DO
	// NOTHING returns no row then and the re-select reads the winner's cart.
	const ins = `
INSERT INTO carts (shopper_id)
VALUES ($1)
ON CONFLICT (shopper_id) DO NOTHING
RETURNING ` + cartColumns + `
`
	cart, err = r.fetchCart(ctx, ins, shopperID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.fetchCart(ctx, sel, shopperID)
}

func (r *postgresRepo) GetByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, cartID)
}

func (r *postgresRepo) GetItem(ctx context.Context, cartID, itemID string) (*domain.CartItem, error) {
	const q = `
SELECT id::text, cart_id::text, product_id::text, variant_id::text, size_id::text, store_id::text,
       store_name, name, sku, COALESCE(image_url, ''), quantity, unit_price_cents, total_cents, shipping_fee_cents, created_at
FROM cart_items
WHERE cart_id = $1 AND id = $2
`
	var item domain.CartItem
	err := r.pool.QueryRow(ctx, q, cartID, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.ProductID,
		&item.VariantID,
		&item.SizeID,
		&item.StoreID,
		&item.StoreName,
		&item.Name,
		&item.SKU,
		&item.ImageURL,
		&item.Quantity,
		&item.UnitPriceCents,
		&item.TotalCents,
		&item.ShippingFeeCents,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID string, in AddItemInput) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Repeated adds of the same (product, variant, size) increase quantity
	// instead of inserting a duplicate row. The line total always derives from
	// the unit price stored with the row, not the incoming one.
	const q = `
INSERT INTO cart_items (cart_id, product_id, variant_id, size_id, store_id, store_name, name, sku, image_url, quantity, unit_price_cents, total_cents, shipping_fee_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $11 * $10, $12)
ON CONFLICT (cart_id, product_id, variant_id, size_id) DO UPDATE SET
    quantity = cart_items.quantity + EXCLUDED.quantity,
    total_cents = cart_items.unit_price_cents * (cart_items.quantity + EXCLUDED.quantity)
`
	if _, err := tx.Exec(ctx, q,
		cartID,
		in.ProductID,
		in.VariantID,
		in.SizeID,
		in.StoreID,
		in.StoreName,
		in.Name,
		in.SKU,
		in.ImageURL,
		in.Quantity,
		in.UnitPriceCents,
		in.ShippingFeeCents,
	); err != nil {
		return err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE cart_items
SET quantity = $1, total_cents = unit_price_cents * $1
WHERE id = $2 AND cart_id = $3
`
	cmd, err := tx.Exec(ctx, q, quantity, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveItem(ctx context.Context, cartID, itemID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND cart_id = $2
`, itemID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Clear(ctx context.Context, cartID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}

	if err := recomputeTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.ShopperID,
		&cart.SubtotalCents,
		&cart.ShippingCents,
		&cart.CouponCode,
		&cart.CouponDiscountCents,
		&cart.TotalCents,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `
SELECT id::text, cart_id::text, product_id::text, variant_id::text, size_id::text, store_id::text,
       store_name, name, sku, COALESCE(image_url, ''), quantity, unit_price_cents, total_cents, shipping_fee_cents, created_at
FROM cart_items
WHERE cart_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.VariantID,
			&item.SizeID,
			&item.StoreID,
			&item.StoreName,
			&item.Name,
			&item.SKU,
			&item.ImageURL,
			&item.Quantity,
			&item.UnitPriceCents,
			&item.TotalCents,
			&item.ShippingFeeCents,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}

// recomputeTotals rewrites the cart's aggregate money fields wholesale from
// its item rows. It is the only writer of these fields; callers must run it
// inside the same transaction as the structural mutation.
func recomputeTotals(ctx context.Context, tx pgx.Tx, cartID string) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET subtotal_cents = COALESCE((
        SELECT SUM(total_cents) FROM cart_items WHERE cart_id = $1
    ), 0),
    shipping_cents = COALESCE((
        SELECT SUM(shipping_fee_cents) FROM cart_items WHERE cart_id = $1
    ), 0),
    total_cents = GREATEST(
        COALESCE((SELECT SUM(total_cents) FROM cart_items WHERE cart_id = $1), 0)
        + COALESCE((SELECT SUM(shipping_fee_cents) FROM cart_items WHERE cart_id = $1), 0)
        - coupon_discount_cents, 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
