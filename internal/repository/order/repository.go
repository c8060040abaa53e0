package order

import (
	"context"

	"storefront/internal/domain"
)

// MaterializeInput is the fully assembled order graph plus everything the
// transaction has to do alongside it: the payment confirmation to record and
// the originating cart to clear.
type MaterializeInput struct {
	CartID  string
	Order   domain.Order
	Payment domain.PaymentRecord
}

type Repository interface {
	// GetPaymentByRef looks up a payment record by external transaction
	// reference. domain.ErrNotFound means the event has not been processed.
	GetPaymentByRef(ctx context.Context, transactionRef string) (*domain.PaymentRecord, error)
	// Materialize commits the order graph, stock decrements, sales counters,
	// payment record and cart teardown in one transaction. Returns
	// domain.ErrAlreadyProcessed when the transaction reference was recorded
	// by a concurrent or earlier delivery.
	Materialize(ctx context.Context, in MaterializeInput) (*domain.Order, error)
}
