package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"storefront/internal/domain"
	"storefront/internal/payment"
	orderrepo "storefront/internal/repository/order"
)

// ErrStaleEvent marks a completion event whose cart no longer exists or is
// empty: a duplicate or out-of-date delivery. Non-retryable; callers should
// acknowledge it so the processor stops redelivering.
var ErrStaleEvent = errors.New("stale completion event")

type Service struct {
	cartRepo    cartRepo
	addressRepo addressRepo
	storeRepo   storeRepo
	orderRepo   orderRepo
	logger      *log.Logger
}

type cartRepo interface {
	GetByID(ctx context.Context, cartID string) (*domain.Cart, error)
}

type addressRepo interface {
	GetDefaultByShopper(ctx context.Context, shopperID string) (*domain.Address, error)
}

type storeRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Store, error)
}

type orderRepo interface {
	GetPaymentByRef(ctx context.Context, transactionRef string) (*domain.PaymentRecord, error)
	Materialize(ctx context.Context, in orderrepo.MaterializeInput) (*domain.Order, error)
}

func New(cartRepo cartRepo, addressRepo addressRepo, storeRepo storeRepo, orderRepo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		storeRepo:   storeRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// HandleCompleted materializes a verified completion event into the durable
// order graph. Idempotent per transaction reference: a replayed event is a
// no-op success. The cart is read at completion time, not from the session
// snapshot, so mutations made during checkout are honored.
func (s *Service) HandleCompleted(ctx context.Context, evt payment.CompletedEvent) (*domain.Order, error) {
	if existing, err := s.orderRepo.GetPaymentByRef(ctx, evt.TransactionRef); err == nil {
		s.logger.Printf("order: duplicate completion ref=%s order=%s, skipping", evt.TransactionRef, existing.OrderID)
		return nil, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	cart, err := s.cartRepo.GetByID(ctx, evt.CartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Printf("order: completion ref=%s cart=%s no longer exists", evt.TransactionRef, evt.CartID)
			return nil, ErrStaleEvent
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		s.logger.Printf("order: completion ref=%s cart=%s is empty", evt.TransactionRef, evt.CartID)
		return nil, ErrStaleEvent
	}

	// Missing address is retryable: the shopper may still be finishing their
	// profile while the event is redelivered.
	addr, err := s.addressRepo.GetDefaultByShopper(ctx, evt.ShopperID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("resolve shipping address for shopper %s: %w", evt.ShopperID, err)
		}
		return nil, err
	}

	groups, err := s.partitionByStore(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	in := orderrepo.MaterializeInput{
		CartID: cart.ID,
		Order: domain.Order{
			ShopperID:     evt.ShopperID,
			Status:        domain.OrderStatusPending,
			PaymentMethod: "card",
			PaymentStatus: domain.PaymentStatusCompleted,
			AddressID:     addr.ID,
			SubtotalCents: cart.SubtotalCents,
			ShippingCents: cart.ShippingCents,
			TotalCents:    cart.TotalCents,
			Groups:        groups,
		},
		Payment: domain.PaymentRecord{
			TransactionRef: evt.TransactionRef,
			AmountCents:    evt.AmountCents,
			Currency:       evt.Currency,
			Status:         domain.PaymentStatusCompleted,
		},
	}

	order, err := s.orderRepo.Materialize(ctx, in)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyProcessed) {
			s.logger.Printf("order: completion ref=%s raced an earlier delivery, skipping", evt.TransactionRef)
			return nil, nil
		}
		return nil, fmt.Errorf("materialize order for ref %s: %w", evt.TransactionRef, err)
	}

	s.logger.Printf("order: materialized id=%s ref=%s groups=%d total_cents=%d", order.ID, evt.TransactionRef, len(order.Groups), order.TotalCents)
	return order, nil
}

// partitionByStore splits cart items into one group per owning store,
// preserving first-seen order, and snapshots each store's shipping terms.
// A store deleted since add time does not block a paid checkout: the group
// falls back to the add-time snapshot with the default delivery window. Any
// other lookup failure is retryable; the frozen fallback is reserved for
// stores that are confirmed gone.
func (s *Service) partitionByStore(ctx context.Context, items []domain.CartItem) ([]domain.OrderGroup, error) {
	var groups []domain.OrderGroup
	index := make(map[string]int)

	for _, item := range items {
		gi, ok := index[item.StoreID]
		if !ok {
			group := domain.OrderGroup{
				StoreID:         item.StoreID,
				StoreName:       item.StoreName,
				ShippingService: "standard",
				DeliveryMinDays: 2,
				DeliveryMaxDays: 7,
				Status:          domain.GroupStatusPending,
			}
			store, err := s.storeRepo.GetByID(ctx, item.StoreID)
			switch {
			case err == nil:
				group.StoreName = store.Name
				group.ShippingService = store.ShippingService
				group.DeliveryMinDays = store.DeliveryMinDays
				group.DeliveryMaxDays = store.DeliveryMaxDays
				if !store.Active {
					s.logger.Printf("order: store %s inactive, materializing with frozen snapshot", item.StoreID)
				}
			case errors.Is(err, domain.ErrNotFound):
				s.logger.Printf("order: store %s deleted, materializing with frozen snapshot", item.StoreID)
			default:
				return nil, fmt.Errorf("resolve store %s: %w", item.StoreID, err)
			}
			groups = append(groups, group)
			gi = len(groups) - 1
			index[item.StoreID] = gi
		}

		group := &groups[gi]
		group.Items = append(group.Items, domain.OrderItem{
			ProductID:        item.ProductID,
			VariantID:        item.VariantID,
			SizeID:           item.SizeID,
			Name:             item.Name,
			SKU:              item.SKU,
			ImageURL:         item.ImageURL,
			Quantity:         item.Quantity,
			UnitPriceCents:   item.UnitPriceCents,
			TotalCents:       item.TotalCents,
			ShippingFeeCents: item.ShippingFeeCents,
			Status:           domain.ItemStatusPending,
		})
		group.SubtotalCents += item.TotalCents
		group.ShippingCents += item.ShippingFeeCents
		group.TotalCents = group.SubtotalCents + group.ShippingCents
	}

	return groups, nil
}
