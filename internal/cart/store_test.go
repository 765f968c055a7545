package cart

import (
	"testing"

	"salchimonster-backend/internal/models"
	"salchimonster-backend/internal/pricing"
)

func addTestItem(s *Store, productID, categoryID string, price, qty int, modifiers ...models.CartModifier) {
	s.AddLine(&models.CartLine{
		ProductID:  productID,
		CategoryID: categoryID,
		Name:       productID,
		BasePrice:  price,
		Quantity:   qty,
		Modifiers:  modifiers,
	})
}

func TestAddLineMergesBySignature(t *testing.T) {
	s := NewStore()

	addTestItem(s, "p1", "c1", 100, 1)
	addTestItem(s, "p1", "c1", 100, 2)

	snapshot := s.Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("Expected merged line, got %d lines", len(snapshot))
	}
	if snapshot[0].Quantity != 3 {
		t.Errorf("Expected merged quantity 3, got %d", snapshot[0].Quantity)
	}
}

func TestAddLineDifferentModifiersStaySeparate(t *testing.T) {
	s := NewStore()

	addTestItem(s, "p1", "c1", 100, 1)
	addTestItem(s, "p1", "c1", 100, 1, models.CartModifier{SelectionID: 7, UnitPrice: 20, Quantity: 1})

	if got := len(s.Snapshot()); got != 2 {
		t.Fatalf("Expected 2 distinct lines, got %d", got)
	}
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 1)
	sig := s.Snapshot()[0].Signature

	if !s.Decrement(sig) {
		t.Fatal("Decrement failed")
	}
	if got := len(s.Snapshot()); got != 0 {
		t.Errorf("Expected empty cart, got %d lines", got)
	}
}

func TestMutationReallocatesDiscount(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 1)

	applied := s.ApplyCoupon(&pricing.DiscountSpec{
		Type:    pricing.CartPercentOff,
		Code:    "TEN",
		Percent: 10,
		Scope:   pricing.Scope{Type: pricing.ScopeAllItems},
	})
	if !applied {
		t.Fatal("Coupon was not applied")
	}
	if got := s.TotalDiscount(); got != 10 {
		t.Fatalf("Expected discount 10 after apply, got %d", got)
	}

	sig := s.Snapshot()[0].Signature
	if !s.Increment(sig) {
		t.Fatal("Increment failed")
	}
	if got := s.TotalDiscount(); got != 20 {
		t.Errorf("Expected discount to follow quantity to 20, got %d", got)
	}

	if !s.SetQuantity(sig, 5) {
		t.Fatal("SetQuantity failed")
	}
	if got := s.TotalDiscount(); got != 50 {
		t.Errorf("Expected discount 50 at quantity 5, got %d", got)
	}
}

func TestCuponeraBlocksCoupon(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 1)

	s.ApplyCuponera(&pricing.DiscountSpec{
		Type:    pricing.CartPercentOff,
		Code:    "CUPONERA20",
		Percent: 20,
	})

	applied := s.ApplyCoupon(&pricing.DiscountSpec{
		Type:    pricing.CartPercentOff,
		Code:    "TEN",
		Percent: 10,
	})
	if applied {
		t.Fatal("Coupon must not apply while a cuponera is active")
	}

	active := s.ActiveSpec()
	if active == nil || active.Code != "CUPONERA20" {
		t.Errorf("Expected cuponera to stay active, got %+v", active)
	}
	if got := s.TotalDiscount(); got != 20 {
		t.Errorf("Expected cuponera allocation intact at 20, got %d", got)
	}
}

func TestCuponeraReplacesCoupon(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 1)

	if !s.ApplyCoupon(&pricing.DiscountSpec{Type: pricing.CartPercentOff, Code: "TEN", Percent: 10}) {
		t.Fatal("Coupon was not applied")
	}

	s.ApplyCuponera(&pricing.DiscountSpec{Type: pricing.CartPercentOff, Code: "CUPONERA20", Percent: 20})

	active := s.ActiveSpec()
	if active == nil || active.Code != "CUPONERA20" {
		t.Fatalf("Expected cuponera active, got %+v", active)
	}
	if !active.FromCuponera {
		t.Error("Expected FromCuponera set on cuponera spec")
	}

	// Removing the cuponera must not resurrect the replaced coupon.
	s.RemoveCuponera()
	if s.ActiveSpec() != nil {
		t.Error("Expected no active discount after removing the cuponera")
	}
	if got := s.TotalDiscount(); got != 0 {
		t.Errorf("Expected zero discount, got %d", got)
	}
}

func TestRemoveCouponResetsAllocation(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 2)

	s.ApplyCoupon(&pricing.DiscountSpec{Type: pricing.CartPercentOff, Code: "TEN", Percent: 10})
	if got := s.TotalDiscount(); got != 20 {
		t.Fatalf("Expected discount 20, got %d", got)
	}

	s.RemoveCoupon()
	if got := s.TotalDiscount(); got != 0 {
		t.Errorf("Expected discount cleared, got %d", got)
	}
	if got := s.Total(); got != 200 {
		t.Errorf("Expected full price 200, got %d", got)
	}
}

func TestFreeItemSpecAddsLineWithoutRecursion(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 500, 2)

	s.ApplyCuponera(&pricing.DiscountSpec{
		Type:  pricing.FreeItem,
		Code:  "GRATIS",
		Free:  &pricing.FreeProduct{ProductID: "free1", Name: "Gaseosa", Price: 300, MaxQty: 1},
		Scope: pricing.Scope{Type: pricing.ScopeCategory, CategoryIDs: []string{"c1"}},
		Requires: pricing.Precondition{
			Rule: pricing.PurchaseBuyXInScope,
			BuyX: 2,
		},
	})

	snapshot := s.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Expected the free product synthesized into the cart, got %d lines", len(snapshot))
	}

	var freeLine *models.CartLine
	for i := range snapshot {
		if snapshot[i].ProductID == "free1" {
			freeLine = &snapshot[i]
		}
	}
	if freeLine == nil {
		t.Fatal("Free product line not found")
	}
	if freeLine.DiscountPerUnit != 300 {
		t.Errorf("Expected free line fully discounted, got %d", freeLine.DiscountPerUnit)
	}
	if got := s.Total(); got != 1000 {
		t.Errorf("Expected paid total 1000, got %d", got)
	}

	// The synthesized line participates in later reallocations like any
	// other: dropping below the precondition revokes the freebie.
	sig := snapshot[0].Signature
	if snapshot[0].ProductID != "p1" {
		sig = snapshot[1].Signature
	}
	if !s.Decrement(sig) {
		t.Fatal("Decrement failed")
	}
	if got := s.TotalDiscount(); got != 0 {
		t.Errorf("Expected freebie revoked below precondition, got discount %d", got)
	}
}

func TestModifierMutationsReallocate(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 1, models.CartModifier{SelectionID: 3, UnitPrice: 50, Quantity: 1})
	sig := s.Snapshot()[0].Signature

	// Min purchase sits between the one-modifier and two-modifier subtotal.
	s.ApplyCoupon(&pricing.DiscountSpec{
		Type:        pricing.CartPercentOff,
		Code:        "TEN",
		Percent:     10,
		MinPurchase: 180,
	})
	if got := s.TotalDiscount(); got != 0 {
		t.Fatalf("Expected no discount under min purchase, got %d", got)
	}

	if !s.IncrementModifier(sig, 3) {
		t.Fatal("IncrementModifier failed")
	}
	if got := s.TotalDiscount(); got != 10 {
		t.Errorf("Expected discount 10 once subtotal crosses threshold, got %d", got)
	}

	if !s.DecrementModifier(sig, 3) {
		t.Fatal("DecrementModifier failed")
	}
	if got := s.TotalDiscount(); got != 0 {
		t.Errorf("Expected discount revoked after modifier removed, got %d", got)
	}
}

func TestTotals(t *testing.T) {
	s := NewStore()
	addTestItem(s, "p1", "c1", 100, 2)
	addTestItem(s, "p2", "c2", 250, 1)

	if got := s.TotalItems(); got != 3 {
		t.Errorf("Expected 3 items, got %d", got)
	}
	if got := s.Subtotal(); got != 450 {
		t.Errorf("Expected subtotal 450, got %d", got)
	}

	s.ApplyCoupon(&pricing.DiscountSpec{Type: pricing.CartAmountOff, Code: "OFF90", Amount: 90})

	if got := s.TotalDiscount(); got != 90 {
		t.Errorf("Expected discount 90, got %d", got)
	}
	if got := s.Total(); got != 360 {
		t.Errorf("Expected total 360, got %d", got)
	}
}

func TestManagerSessionIsolation(t *testing.T) {
	m := NewManager()

	a := m.Get("session-a")
	b := m.Get("session-b")
	if a == b {
		t.Fatal("Expected distinct stores per session")
	}

	addTestItem(a, "p1", "c1", 100, 1)
	if got := b.TotalItems(); got != 0 {
		t.Errorf("Expected session b untouched, got %d items", got)
	}

	if m.Get("session-a") != a {
		t.Error("Expected stable store per session ID")
	}

	m.Drop("session-a")
	if m.Get("session-a") == a {
		t.Error("Expected a fresh store after Drop")
	}
}
