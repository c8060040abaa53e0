package domain

// Store is the catalog collaborator's view of a seller, read at
// materialization time to snapshot shipping terms onto the order group.
type Store struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Active          bool   `json:"active"`
	ShippingService string `json:"shippingService"`
	DeliveryMinDays int    `json:"deliveryMinDays"`
	DeliveryMaxDays int    `json:"deliveryMaxDays"`
}

// StockRecord is the catalog's authoritative quantity/price/discount for one
// variant+size combination, joined with the display fields the cart snapshots
// at add time.
type StockRecord struct {
	SizeID           string `json:"sizeId"`
	VariantID        string `json:"variantId"`
	ProductID        string `json:"productId"`
	StoreID          string `json:"storeId"`
	StoreName        string `json:"storeName"`
	Size             string `json:"size"`
	SKU              string `json:"sku"`
	ProductName      string `json:"productName"`
	ImageURL         string `json:"imageUrl,omitempty"`
	Quantity         int    `json:"quantity"`
	PriceCents       int64  `json:"priceCents"`
	DiscountPct      int    `json:"discountPct"`
	ShippingFeeCents int64  `json:"shippingFeeCents"`
}
