package domain

import "time"

// Cart is a shopper's in-progress selection, one row per shopper. The money
// aggregates are derived state: they are rewritten wholesale from the item rows
// by the cart repository after every structural mutation and must never be
// patched anywhere else.
type Cart struct {
	ID                  string     `json:"id"`
	ShopperID           string     `json:"shopperId"`
	SubtotalCents       int64      `json:"subtotalCents"`
	ShippingCents       int64      `json:"shippingCents"`
	CouponCode          *string    `json:"couponCode,omitempty"`
	CouponDiscountCents int64      `json:"couponDiscountCents"`
	TotalCents          int64      `json:"totalCents"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	Items               []CartItem `json:"items,omitempty"`
}

// CartItem pins one cart line to a specific product variant and size record.
// Price and display fields are snapshotted at add time; later catalog changes
// do not flow back into existing lines.
type CartItem struct {
	ID               string    `json:"id"`
	CartID           string    `json:"cartId"`
	ProductID        string    `json:"productId"`
	VariantID        string    `json:"variantId"`
	SizeID           string    `json:"sizeId"`
	StoreID          string    `json:"storeId"`
	StoreName        string    `json:"storeName"`
	Name             string    `json:"name"`
	SKU              string    `json:"sku"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	Quantity         int       `json:"quantity"`
	UnitPriceCents   int64     `json:"unitPriceCents"`
	TotalCents       int64     `json:"totalCents"`
	ShippingFeeCents int64     `json:"shippingFeeCents"`
	CreatedAt        time.Time `json:"createdAt"`
}
