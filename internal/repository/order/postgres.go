package order

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

func (r *postgresRepo) GetPaymentByRef(ctx context.Context, transactionRef string) (*domain.PaymentRecord, error) {
	const q = `
SELECT id::text, order_id::text, transaction_ref, amount_cents, currency, status, created_at
FROM payments
WHERE transaction_ref = $1
`
	var p domain.PaymentRecord
	err := r.pool.QueryRow(ctx, q, transactionRef).Scan(
		&p.ID,
		&p.OrderID,
		&p.TransactionRef,
		&p.AmountCents,
		&p.Currency,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Materialize(ctx context.Context, in MaterializeInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Idempotency gate inside the transaction. The unique index on
	// payments.transaction_ref is the backstop for concurrent deliveries.
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE transaction_ref = $1)`, in.Payment.TransactionRef).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyProcessed
	}

	out := in.Order
	if err := tx.QueryRow(ctx, `
INSERT INTO orders (shopper_id, status, payment_method, payment_status, address_id, subtotal_cents, shipping_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id::text, created_at
`,
		in.Order.ShopperID,
		in.Order.Status,
		in.Order.PaymentMethod,
		in.Order.PaymentStatus,
		in.Order.AddressID,
		in.Order.SubtotalCents,
		in.Order.ShippingCents,
		in.Order.TotalCents,
	).Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}

	for gi := range out.Groups {
		group := &out.Groups[gi]
		group.OrderID = out.ID
		if err := tx.QueryRow(ctx, `
INSERT INTO order_groups (order_id, store_id, store_name, shipping_service, delivery_min_days, delivery_max_days, status, subtotal_cents, shipping_cents, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id::text
`,
			group.OrderID,
			group.StoreID,
			group.StoreName,
			group.ShippingService,
			group.DeliveryMinDays,
			group.DeliveryMaxDays,
			group.Status,
			group.SubtotalCents,
			group.ShippingCents,
			group.TotalCents,
		).Scan(&group.ID); err != nil {
			return nil, err
		}

		for ii := range group.Items {
			item := &group.Items[ii]
			item.GroupID = group.ID
			if err := tx.QueryRow(ctx, `
INSERT INTO order_items (group_id, product_id, variant_id, size_id, name, sku, image_url, quantity, unit_price_cents, total_cents, shipping_fee_cents, status)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12)
RETURNING id::text
`,
				item.GroupID,
				item.ProductID,
				item.VariantID,
				item.SizeID,
				item.Name,
				item.SKU,
				item.ImageURL,
				item.Quantity,
				item.UnitPriceCents,
				item.TotalCents,
				item.ShippingFeeCents,
				item.Status,
			).Scan(&item.ID); err != nil {
				return nil, err
			}

			if err := r.applyInventory(ctx, tx, item); err != nil {
				return nil, err
			}
		}
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO payments (order_id, transaction_ref, amount_cents, currency, status)
VALUES ($1, $2, $3, $4, $5)
`,
		out.ID,
		in.Payment.TransactionRef,
		in.Payment.AmountCents,
		in.Payment.Currency,
		in.Payment.Status,
	); err != nil {
		return nil, err
	}

	// Cart teardown: delete the lines and zero the aggregates, keeping the
	// cart row so the shopper's next view reads an empty cart.
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, in.CartID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
UPDATE carts
SET subtotal_cents = 0, shipping_cents = 0, coupon_code = NULL, coupon_discount_cents = 0, total_cents = 0, updated_at = now()
WHERE id = $1
`, in.CartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

// applyInventory decrements the stock record and bumps the sales counters for
// one materialized item. The decrement is unconditional: stock was validated
// at add/update time, so a concurrent sale may drive the on-hand count below
// the ordered quantity. The row is clamped at zero and flagged for manual
// reconciliation instead of failing the materialization.
func (r *postgresRepo) applyInventory(ctx context.Context, tx pgx.Tx, item *domain.OrderItem) error {
	var onHand int
	if err := tx.QueryRow(ctx, `SELECT quantity FROM sizes WHERE id = $1 FOR UPDATE`, item.SizeID).Scan(&onHand); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Stock record deleted since add time. Sales counters still move;
			// there is nothing left to decrement.
			r.logger.Printf("order repo: size_id=%s missing at materialization, skipping decrement", item.SizeID)
		} else {
			return err
		}
	} else {
		remaining := onHand - item.Quantity
		if remaining < 0 {
			r.logger.Printf("order repo: oversell size_id=%s on_hand=%d ordered=%d, clamping to zero", item.SizeID, onHand, item.Quantity)
			remaining = 0
		}
		if _, err := tx.Exec(ctx, `UPDATE sizes SET quantity = $1 WHERE id = $2`, remaining, item.SizeID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE products SET sales = sales + $1 WHERE id = $2`, item.Quantity, item.ProductID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `UPDATE variants SET sales = sales + $1 WHERE id = $2`, item.Quantity, item.VariantID); err != nil {
		return err
	}
	return nil
}
