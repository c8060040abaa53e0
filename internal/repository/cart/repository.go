package cart

import (
	"context"

	"storefront/internal/domain"
)

// AddItemInput carries the add-time snapshot for a cart line. Unit price and
// display fields are frozen here; the repository only stores them.
type AddItemInput struct {
	ProductID        string
	VariantID        string
	SizeID           string
	StoreID          string
	StoreName        string
	Name             string
	SKU              string
	ImageURL         string
	Quantity         int
	UnitPriceCents   int64
	ShippingFeeCents int64
}

type Repository interface {
	GetOrCreateByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
	GetByID(ctx context.Context, cartID string) (*domain.Cart, error)
	GetItem(ctx context.Context, cartID, itemID string) (*domain.CartItem, error)
	AddItem(ctx context.Context, cartID string, in AddItemInput) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}
