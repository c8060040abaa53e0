package cart

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

type Service struct {
	repo      cartRepo
	stockRepo stockRepo
}

type cartRepo interface {
	GetOrCreateByShopper(ctx context.Context, shopperID string) (*domain.Cart, error)
	GetItem(ctx context.Context, cartID, itemID string) (*domain.CartItem, error)
	AddItem(ctx context.Context, cartID string, in cartrepo.AddItemInput) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, itemID string) error
	Clear(ctx context.Context, cartID string) error
}

type stockRepo interface {
	Get(ctx context.Context, variantID, sizeID string) (*domain.StockRecord, error)
}

func New(repo cartrepo.Repository, stockRepo stockRepo) *Service {
	return &Service{repo: repo, stockRepo: stockRepo}
}

// AddInput identifies one purchasable unit. Quantity defaults to 1 when zero
// at the HTTP layer, never here.
type AddInput struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	SizeID    string `json:"sizeId"`
	Quantity  int    `json:"quantity"`
}

// View returns the shopper's cart with items, creating an empty cart on first
// call rather than reporting not-found.
func (s *Service) View(ctx context.Context, shopperID string) (*domain.Cart, error) {
	if strings.TrimSpace(shopperID) == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.GetOrCreateByShopper(ctx, shopperID)
}

// Add validates the requested quantity against live stock, snapshots the unit
// price from the stock record's list price and discount, and upserts the cart
// line. Repeated adds of the same tuple are re-validated with the combined
// quantity.
func (s *Service) Add(ctx context.Context, shopperID string, in AddInput) (*domain.Cart, error) {
	if strings.TrimSpace(shopperID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidInput)
	}
	if in.ProductID == "" || in.VariantID == "" || in.SizeID == "" {
		return nil, fmt.Errorf("%w: product, variant and size are required", domain.ErrInvalidInput)
	}

	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	stock, err := s.stockRepo.Get(ctx, in.VariantID, in.SizeID)
	if err != nil {
		return nil, err
	}
	if stock.ProductID != in.ProductID {
		return nil, fmt.Errorf("%w: size does not belong to product", domain.ErrInvalidInput)
	}

	requested := in.Quantity
	for _, item := range cart.Items {
		if item.ProductID == in.ProductID && item.VariantID == in.VariantID && item.SizeID == in.SizeID {
			requested += item.Quantity
			break
		}
	}
	if requested > stock.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", domain.ErrOutOfStock, requested, stock.Quantity)
	}

	err = s.repo.AddItem(ctx, cart.ID, cartrepo.AddItemInput{
		ProductID:        in.ProductID,
		VariantID:        in.VariantID,
		SizeID:           in.SizeID,
		StoreID:          stock.StoreID,
		StoreName:        stock.StoreName,
		Name:             stock.ProductName,
		SKU:              stock.SKU,
		ImageURL:         stock.ImageURL,
		Quantity:         in.Quantity,
		UnitPriceCents:   domain.UnitPriceCents(stock.PriceCents, stock.DiscountPct),
		ShippingFeeCents: stock.ShippingFeeCents,
	})
	if err != nil {
		return nil, err
	}

	return s.repo.GetOrCreateByShopper(ctx, shopperID)
}

// UpdateQuantity re-validates the new quantity against the item's stock record
// and recomputes its line total from the snapshotted unit price, never from a
// re-fetched catalog price.
func (s *Service) UpdateQuantity(ctx context.Context, shopperID, itemID string, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(shopperID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidInput)
	}

	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	stock, err := s.stockRepo.Get(ctx, item.VariantID, item.SizeID)
	if err != nil {
		return nil, err
	}
	if quantity > stock.Quantity {
		return nil, fmt.Errorf("%w: requested %d, available %d", domain.ErrOutOfStock, quantity, stock.Quantity)
	}

	if err := s.repo.UpdateItemQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		return nil, err
	}

	return s.repo.GetOrCreateByShopper(ctx, shopperID)
}

// Remove deletes one owned item. Removing the last item leaves the empty cart
// row in place.
func (s *Service) Remove(ctx context.Context, shopperID, itemID string) (*domain.Cart, error) {
	if strings.TrimSpace(shopperID) == "" {
		return nil, domain.ErrUnauthorized
	}

	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}

	return s.repo.GetOrCreateByShopper(ctx, shopperID)
}

// Clear deletes all items and zeroes the aggregates, keeping the cart row.
func (s *Service) Clear(ctx context.Context, shopperID string) (*domain.Cart, error) {
	if strings.TrimSpace(shopperID) == "" {
		return nil, domain.ErrUnauthorized
	}

	cart, err := s.repo.GetOrCreateByShopper(ctx, shopperID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}

	return s.repo.GetOrCreateByShopper(ctx, shopperID)
}
