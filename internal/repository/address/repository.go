package address

import (
	"context"

	"storefront/internal/domain"
)

// Repository is the shipping collaborator: it resolves a shopper's default
// shipping destination for order materialization.
type Repository interface {
	GetDefaultByShopper(ctx context.Context, shopperID string) (*domain.Address, error)
}
