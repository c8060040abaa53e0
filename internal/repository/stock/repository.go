package stock

import (
	"context"

	"storefront/internal/domain"
)

// Repository is the read side of the catalog collaborator: stock validation
// and add-time price snapshotting. Decrements and sales counters are written
// only inside the order materialization transaction.
type Repository interface {
	Get(ctx context.Context, variantID, sizeID string) (*domain.StockRecord, error)
}
