package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/domain"
	cartrepo "storefront/internal/repository/cart"
)

// fakeRepo mimics the postgres cart repository's arithmetic: upsert on the
// (product, variant, size) tuple and wholesale recompute of the aggregates
// after every mutation.
type fakeRepo struct {
	cart   domain.Cart
	nextID int

	addErr    error
	updateErr error
}

func newFakeRepo(shopperID string) *fakeRepo {
	return &fakeRepo{cart: domain.Cart{ID: "cart-1", ShopperID: shopperID}}
}

func (f *fakeRepo) GetOrCreateByShopper(_ context.Context, _ string) (*domain.Cart, error) {
	out := f.cart
	out.Items = append([]domain.CartItem(nil), f.cart.Items...)
	return &out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, cartID string) (*domain.Cart, error) {
	if cartID != f.cart.ID {
		return nil, domain.ErrNotFound
	}
	out := f.cart
	out.Items = append([]domain.CartItem(nil), f.cart.Items...)
	return &out, nil
}

func (f *fakeRepo) GetItem(_ context.Context, cartID, itemID string) (*domain.CartItem, error) {
	if cartID != f.cart.ID {
		return nil, domain.ErrNotFound
	}
	for _, item := range f.cart.Items {
		if item.ID == itemID {
			out := item
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRepo) AddItem(_ context.Context, cartID string, in cartrepo.AddItemInput) error {
	if f.addErr != nil {
		return f.addErr
	}
	if cartID != f.cart.ID {
		return domain.ErrNotFound
	}
	for i, item := range f.cart.Items {
		if item.ProductID == in.ProductID && item.VariantID == in.VariantID && item.SizeID == in.SizeID {
			f.cart.Items[i].Quantity += in.Quantity
			f.cart.Items[i].TotalCents = item.UnitPriceCents * int64(f.cart.Items[i].Quantity)
			f.recompute()
			return nil
		}
	}
	f.nextID++
	f.cart.Items = append(f.cart.Items, domain.CartItem{
		ID:               fmt.Sprintf("item-%d", f.nextID),
		CartID:           cartID,
		ProductID:        in.ProductID,
		VariantID:        in.VariantID,
		SizeID:           in.SizeID,
		StoreID:          in.StoreID,
		StoreName:        in.StoreName,
		Name:             in.Name,
		SKU:              in.SKU,
		ImageURL:         in.ImageURL,
		Quantity:         in.Quantity,
		UnitPriceCents:   in.UnitPriceCents,
		TotalCents:       in.UnitPriceCents * int64(in.Quantity),
		ShippingFeeCents: in.ShippingFeeCents,
	})
	f.recompute()
	return nil
}

func (f *fakeRepo) UpdateItemQuantity(_ context.Context, cartID, itemID string, quantity int) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i, item := range f.cart.Items {
		if item.ID == itemID && cartID == f.cart.ID {
			f.cart.Items[i].Quantity = quantity
			f.cart.Items[i].TotalCents = item.UnitPriceCents * int64(quantity)
			f.recompute()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) RemoveItem(_ context.Context, cartID, itemID string) error {
	for i, item := range f.cart.Items {
		if item.ID == itemID && cartID == f.cart.ID {
			f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
			f.recompute()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRepo) Clear(_ context.Context, cartID string) error {
	if cartID != f.cart.ID {
		return domain.ErrNotFound
	}
	f.cart.Items = nil
	f.recompute()
	return nil
}

func (f *fakeRepo) recompute() {
	var sub, ship int64
	for _, item := range f.cart.Items {
		sub += item.TotalCents
		ship += item.ShippingFeeCents
	}
	f.cart.SubtotalCents = sub
	f.cart.ShippingCents = ship
	f.cart.TotalCents = sub + ship
}

type stubStockRepo struct {
	records map[string]*domain.StockRecord
	err     error
}

func (s *stubStockRepo) Get(_ context.Context, variantID, sizeID string) (*domain.StockRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec, ok := s.records[variantID+"/"+sizeID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func stockFixture() *stubStockRepo {
	return &stubStockRepo{records: map[string]*domain.StockRecord{
		"variant-y/size-z": {
			SizeID:           "size-z",
			VariantID:        "variant-y",
			ProductID:        "product-x",
			StoreID:          "store-1",
			StoreName:        "North Threads",
			Size:             "M",
			SKU:              "NT-1",
			ProductName:      "Wool Sweater",
			Quantity:         5,
			PriceCents:       1000,
			DiscountPct:      10,
			ShippingFeeCents: 200,
		},
	}}
}

func TestViewRequiresIdentity(t *testing.T) {
	svc := New(newFakeRepo("shopper"), stockFixture())
	if _, err := svc.View(context.Background(), "  "); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestViewCreatesEmptyCart(t *testing.T) {
	svc := New(newFakeRepo("shopper"), stockFixture())
	cart, err := svc.View(context.Background(), "shopper")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 0 || cart.SubtotalCents != 0 || cart.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestAddRejectsBadQuantity(t *testing.T) {
	svc := New(newFakeRepo("shopper"), stockFixture())
	for _, qty := range []int{0, -3} {
		_, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: qty})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("quantity %d: expected invalid input, got %v", qty, err)
		}
	}
}

func TestAddSnapshotsDiscountedPrice(t *testing.T) {
	// Stock 5 at 10.00 with 10% discount: unit 9.00, line 27.00 for qty 3.
	repo := newFakeRepo("shopper")
	svc := New(repo, stockFixture())

	cart, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(cart.Items))
	}
	item := cart.Items[0]
	if item.UnitPriceCents != 900 {
		t.Fatalf("unit price = %d, want 900", item.UnitPriceCents)
	}
	if item.TotalCents != 2700 {
		t.Fatalf("line total = %d, want 2700", item.TotalCents)
	}
	if cart.SubtotalCents != 2700 {
		t.Fatalf("subtotal = %d, want 2700", cart.SubtotalCents)
	}
	if cart.TotalCents != cart.SubtotalCents+cart.ShippingCents {
		t.Fatalf("total %d != subtotal %d + shipping %d", cart.TotalCents, cart.SubtotalCents, cart.ShippingCents)
	}
}

func TestAddRejectsOverStock(t *testing.T) {
	svc := New(newFakeRepo("shopper"), stockFixture())
	_, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 6})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}
}

func TestAddRevalidatesCombinedQuantity(t *testing.T) {
	repo := newFakeRepo("shopper")
	svc := New(repo, stockFixture())

	if _, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 3}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// 3 in cart + 3 requested > 5 in stock.
	_, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 3})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock on combined quantity, got %v", err)
	}

	// 3 + 2 fits and merges into one row.
	cart, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 5 {
		t.Fatalf("expected merged row with quantity 5, got %+v", cart.Items)
	}
	if cart.SubtotalCents != 4500 {
		t.Fatalf("subtotal = %d, want 4500", cart.SubtotalCents)
	}
}

func TestUpdateQuantityOverStockLeavesCartUnchanged(t *testing.T) {
	repo := newFakeRepo("shopper")
	svc := New(repo, stockFixture())

	cart, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 3})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := cart.Items[0].ID

	_, err = svc.UpdateQuantity(context.Background(), "shopper", itemID, 6)
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected out of stock, got %v", err)
	}

	after, err := svc.View(context.Background(), "shopper")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if after.Items[0].Quantity != 3 || after.SubtotalCents != 2700 {
		t.Fatalf("cart changed after rejected update: %+v", after)
	}
}

func TestUpdateQuantityUsesSnapshottedUnitPrice(t *testing.T) {
	repo := newFakeRepo("shopper")
	stock := stockFixture()
	svc := New(repo, stock)

	cart, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	itemID := cart.Items[0].ID

	// Catalog price changes after the add; the snapshotted 900 must stick.
	stock.records["variant-y/size-z"].PriceCents = 5000

	updated, err := svc.UpdateQuantity(context.Background(), "shopper", itemID, 4)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Items[0].UnitPriceCents != 900 || updated.Items[0].TotalCents != 3600 {
		t.Fatalf("expected snapshotted price 900 x 4 = 3600, got %+v", updated.Items[0])
	}
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	svc := New(newFakeRepo("shopper"), stockFixture())
	_, err := svc.UpdateQuantity(context.Background(), "shopper", "missing", 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddThenReduceMatchesDirectAdd(t *testing.T) {
	// add(2) followed by update(1) must equal add(1) directly.
	repoA := newFakeRepo("shopper")
	svcA := New(repoA, stockFixture())
	cartA, err := svcA.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 2})
	if err != nil {
		t.Fatalf("add 2: %v", err)
	}
	cartA, err = svcA.UpdateQuantity(context.Background(), "shopper", cartA.Items[0].ID, 1)
	if err != nil {
		t.Fatalf("reduce to 1: %v", err)
	}

	repoB := newFakeRepo("shopper")
	svcB := New(repoB, stockFixture())
	cartB, err := svcB.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 1})
	if err != nil {
		t.Fatalf("add 1: %v", err)
	}

	a, b := cartA.Items[0], cartB.Items[0]
	if a.Quantity != b.Quantity || a.UnitPriceCents != b.UnitPriceCents || a.TotalCents != b.TotalCents {
		t.Fatalf("round trip mismatch: %+v vs %+v", a, b)
	}
	if cartA.SubtotalCents != cartB.SubtotalCents || cartA.TotalCents != cartB.TotalCents {
		t.Fatalf("aggregate mismatch: %+v vs %+v", cartA, cartB)
	}
}

func TestRemoveLastItemKeepsCartRow(t *testing.T) {
	repo := newFakeRepo("shopper")
	svc := New(repo, stockFixture())

	cart, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 1})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	after, err := svc.Remove(context.Background(), "shopper", cart.Items[0].ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if after.ID != cart.ID {
		t.Fatalf("cart row replaced: %s vs %s", after.ID, cart.ID)
	}
	if len(after.Items) != 0 || after.SubtotalCents != 0 || after.TotalCents != 0 {
		t.Fatalf("expected empty cart, got %+v", after)
	}
}

func TestClearResetsAggregates(t *testing.T) {
	repo := newFakeRepo("shopper")
	svc := New(repo, stockFixture())

	if _, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 3}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cleared, err := svc.Clear(context.Background(), "shopper")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cleared.Items) != 0 || cleared.SubtotalCents != 0 || cleared.ShippingCents != 0 || cleared.TotalCents != 0 {
		t.Fatalf("expected zeroed cart, got %+v", cleared)
	}

	// The row is still there for the next view.
	again, err := svc.View(context.Background(), "shopper")
	if err != nil {
		t.Fatalf("view after clear: %v", err)
	}
	if again.ID != cleared.ID {
		t.Fatalf("cart row missing after clear")
	}
}

func TestAddStockLookupError(t *testing.T) {
	svc := New(newFakeRepo("shopper"), &stubStockRepo{err: errors.New("catalog down")})
	_, err := svc.Add(context.Background(), "shopper", AddInput{ProductID: "product-x", VariantID: "variant-y", SizeID: "size-z", Quantity: 1})
	if err == nil || err.Error() != "catalog down" {
		t.Fatalf("expected catalog error, got %v", err)
	}
}
