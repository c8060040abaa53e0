package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/payment"
)

type Service struct {
	cartRepo   cartRepo
	sessions   payment.SessionCreator
	currency   string
	successURL string
	cancelURL  string
	logger     *log.Logger
}

type cartRepo interface {
	GetByID(ctx context.Context, cartID string) (*domain.Cart, error)
}

func New(cartRepo cartRepo, sessions payment.SessionCreator, currency, successURL, cancelURL string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		cartRepo:   cartRepo,
		sessions:   sessions,
		currency:   currency,
		successURL: successURL,
		cancelURL:  cancelURL,
		logger:     logger,
	}
}

// Initiate freezes the cart into a payment-session request and returns the
// processor's redirect URL. No inventory or order mutation happens here; the
// cart stays live and editable until a completion event arrives.
func (s *Service) Initiate(ctx context.Context, shopperID, cartID string) (string, error) {
	if strings.TrimSpace(shopperID) == "" {
		return "", domain.ErrUnauthorized
	}
	if strings.TrimSpace(cartID) == "" {
		return "", fmt.Errorf("%w: cartId required", domain.ErrInvalidInput)
	}

	cart, err := s.cartRepo.GetByID(ctx, cartID)
	if err != nil {
		return "", err
	}
	if cart.ShopperID != shopperID {
		return "", domain.ErrCartMismatch
	}
	if len(cart.Items) == 0 {
		return "", domain.ErrEmptyCart
	}

	lineItems := make([]payment.SessionLineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		lineItems = append(lineItems, payment.SessionLineItem{
			Name:            item.Name,
			UnitAmountCents: item.UnitPriceCents,
			Quantity:        item.Quantity,
			Currency:        s.currency,
		})
	}

	session, err := s.sessions.CreateSession(ctx, payment.SessionRequest{
		LineItems: lineItems,
		Metadata: payment.Metadata{
			ShopperID: shopperID,
			CartID:    cartID,
		},
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("initiate checkout: %w", err)
	}

	s.logger.Printf("checkout: session %s created for cart=%s total_cents=%d", session.ID, cartID, cart.TotalCents)
	return session.RedirectURL, nil
}
