package checkout

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/payment"
)

type stubCartRepo struct {
	cart *domain.Cart
	err  error
}

func (s *stubCartRepo) GetByID(_ context.Context, _ string) (*domain.Cart, error) {
	return s.cart, s.err
}

type stubSessions struct {
	session *payment.Session
	err     error
	lastReq payment.SessionRequest
	calls   int
}

func (s *stubSessions) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	s.calls++
	s.lastReq = req
	return s.session, s.err
}

func newService(repo *stubCartRepo, sessions *stubSessions) *Service {
	return New(repo, sessions, "USD", "https://shop/success", "https://shop/cancel", nil)
}

func twoItemCart() *domain.Cart {
	return &domain.Cart{
		ID:        "cart-1",
		ShopperID: "shopper-1",
		Items: []domain.CartItem{
			{ID: "item-1", Name: "Wool Sweater", UnitPriceCents: 4999, Quantity: 1},
			{ID: "item-2", Name: "Canvas Sneaker", UnitPriceCents: 5524, Quantity: 2},
		},
		SubtotalCents: 16047,
		TotalCents:    16047,
	}
}

func TestInitiateRequiresIdentity(t *testing.T) {
	svc := newService(&stubCartRepo{cart: twoItemCart()}, &stubSessions{})
	_, err := svc.Initiate(context.Background(), "", "cart-1")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestInitiateUnknownCart(t *testing.T) {
	svc := newService(&stubCartRepo{err: domain.ErrNotFound}, &stubSessions{})
	_, err := svc.Initiate(context.Background(), "shopper-1", "cart-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInitiateCartMismatch(t *testing.T) {
	sessions := &stubSessions{}
	svc := newService(&stubCartRepo{cart: twoItemCart()}, sessions)
	_, err := svc.Initiate(context.Background(), "someone-else", "cart-1")
	if !errors.Is(err, domain.ErrCartMismatch) {
		t.Fatalf("expected cart mismatch, got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("session created despite mismatch")
	}
}

func TestInitiateEmptyCart(t *testing.T) {
	cart := &domain.Cart{ID: "cart-1", ShopperID: "shopper-1"}
	sessions := &stubSessions{}
	svc := newService(&stubCartRepo{cart: cart}, sessions)
	_, err := svc.Initiate(context.Background(), "shopper-1", "cart-1")
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("session created for empty cart")
	}
}

func TestInitiateBuildsSessionFromCart(t *testing.T) {
	sessions := &stubSessions{session: &payment.Session{ID: "sess-1", RedirectURL: "https://pay.example/s/1"}}
	svc := newService(&stubCartRepo{cart: twoItemCart()}, sessions)

	url, err := svc.Initiate(context.Background(), "shopper-1", "cart-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay.example/s/1" {
		t.Fatalf("unexpected redirect url %q", url)
	}

	req := sessions.lastReq
	if req.Metadata.ShopperID != "shopper-1" || req.Metadata.CartID != "cart-1" {
		t.Fatalf("metadata not carried: %+v", req.Metadata)
	}
	if len(req.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(req.LineItems))
	}
	if req.LineItems[0].Name != "Wool Sweater" || req.LineItems[0].UnitAmountCents != 4999 || req.LineItems[0].Quantity != 1 {
		t.Fatalf("first line item wrong: %+v", req.LineItems[0])
	}
	if req.LineItems[1].UnitAmountCents != 5524 || req.LineItems[1].Quantity != 2 {
		t.Fatalf("second line item wrong: %+v", req.LineItems[1])
	}
	if req.SuccessURL != "https://shop/success" || req.CancelURL != "https://shop/cancel" {
		t.Fatalf("redirect urls wrong: %+v", req)
	}
}

func TestInitiateProcessorError(t *testing.T) {
	sessions := &stubSessions{err: errors.New("processor timeout")}
	svc := newService(&stubCartRepo{cart: twoItemCart()}, sessions)
	_, err := svc.Initiate(context.Background(), "shopper-1", "cart-1")
	if err == nil {
		t.Fatalf("expected processor error")
	}
}
