package domain

import "time"

const (
	OrderStatusPending = "pending"

	GroupStatusPending = "pending"

	ItemStatusPending = "pending"

	PaymentStatusCompleted = "completed"
)

// Order is the durable record of one completed checkout, spanning possibly
// multiple stores. Money fields are a snapshot of the originating cart at
// completion time and never change after creation.
type Order struct {
	ID            string       `json:"id"`
	ShopperID     string       `json:"shopperId"`
	Status        string       `json:"status"`
	PaymentMethod string       `json:"paymentMethod"`
	PaymentStatus string       `json:"paymentStatus"`
	AddressID     string       `json:"addressId"`
	SubtotalCents int64        `json:"subtotalCents"`
	ShippingCents int64        `json:"shippingCents"`
	TotalCents    int64        `json:"totalCents"`
	CreatedAt     time.Time    `json:"createdAt"`
	Groups        []OrderGroup `json:"groups,omitempty"`
}

// OrderGroup is the per-store subdivision of an Order so each store can be
// fulfilled and settled independently. Carries the store's shipping snapshot
// and its own money aggregates.
type OrderGroup struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"orderId"`
	StoreID         string      `json:"storeId"`
	StoreName       string      `json:"storeName"`
	ShippingService string      `json:"shippingService"`
	DeliveryMinDays int         `json:"deliveryMinDays"`
	DeliveryMaxDays int         `json:"deliveryMaxDays"`
	Status          string      `json:"status"`
	SubtotalCents   int64       `json:"subtotalCents"`
	ShippingCents   int64       `json:"shippingCents"`
	TotalCents      int64       `json:"totalCents"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is the immutable counterpart of a CartItem after materialization,
// with its own fulfillment status distinct from the group's.
type OrderItem struct {
	ID               string `json:"id"`
	GroupID          string `json:"groupId"`
	ProductID        string `json:"productId"`
	VariantID        string `json:"variantId"`
	SizeID           string `json:"sizeId"`
	Name             string `json:"name"`
	SKU              string `json:"sku"`
	ImageURL         string `json:"imageUrl,omitempty"`
	Quantity         int    `json:"quantity"`
	UnitPriceCents   int64  `json:"unitPriceCents"`
	TotalCents       int64  `json:"totalCents"`
	ShippingFeeCents int64  `json:"shippingFeeCents"`
	Status           string `json:"status"`
}

// PaymentRecord stores the external processor's confirmation for one Order.
// Created only by the materializer; the transaction reference is unique and
// keys idempotent redelivery.
type PaymentRecord struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	TransactionRef string    `json:"transactionRef"`
	AmountCents    int64     `json:"amountCents"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}
