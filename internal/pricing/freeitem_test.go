package pricing

import (
	"testing"

	"salchimonster-backend/internal/models"
)

// appendingAddItem mimics the cart's add hook: it appends the free product as
// a new line and returns the grown slice.
func appendingAddItem(lines *[]*models.CartLine, calls *int) AddItemFunc {
	return func(free *FreeProduct, qty int) []*models.CartLine {
		*calls++
		*lines = append(*lines, &models.CartLine{
			Signature: free.ProductID,
			ProductID: free.ProductID,
			Name:      free.Name,
			BasePrice: free.Price,
			Quantity:  qty,
		})
		return *lines
	}
}

func freeSpec(free *FreeProduct, requires Precondition) *DiscountSpec {
	return &DiscountSpec{Type: FreeItem, Free: free, Requires: requires}
}

func TestFreeItemNoPreconditionAddsOneUnit(t *testing.T) {
	lines := []*models.CartLine{testLine("p1", "c1", 1000, 1)}
	calls := 0
	spec := freeSpec(&FreeProduct{ProductID: "free1", Name: "Gaseosa", Price: 500, MaxQty: 1}, Precondition{})

	flags := Allocate(lines, spec, appendingAddItem(&lines, &calls))

	if calls != 1 {
		t.Fatalf("Expected one synthesized add, got %d", calls)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected free line appended, got %d lines", len(lines))
	}
	freeLine := lines[1]
	if freeLine.Quantity != 1 || freeLine.DiscountPerUnit != 500 {
		t.Errorf("Expected 1 free unit fully discounted, got qty %d discount %d", freeLine.Quantity, freeLine.DiscountPerUnit)
	}
	if !flags.FreeProductInCart {
		t.Error("Expected FreeProductInCart flag")
	}
	if flags.ActualMaxFree != 1 || flags.GroupsCompleted != 1 {
		t.Errorf("Expected one group and one free unit, got groups %d actual %d", flags.GroupsCompleted, flags.ActualMaxFree)
	}
}

func TestFreeItemBuyXCapsAtMaxQty(t *testing.T) {
	// 4 units in scope with buy_x 2 completes 2 groups, but max_qty 1 caps
	// the giveaway at a single unit.
	lines := []*models.CartLine{testLine("p1", "c1", 800, 4)}
	calls := 0
	spec := freeSpec(
		&FreeProduct{ProductID: "free1", Price: 300, MaxQty: 1},
		Precondition{Rule: PurchaseBuyXInScope, BuyX: 2},
	)

	flags := Allocate(lines, spec, appendingAddItem(&lines, &calls))

	if flags.GroupsCompleted != 2 {
		t.Errorf("Expected 2 completed groups, got %d", flags.GroupsCompleted)
	}
	if flags.ActualMaxFree != 1 {
		t.Errorf("Expected max free capped at 1, got %d", flags.ActualMaxFree)
	}
	if len(lines) != 2 || lines[1].Quantity != 1 {
		t.Fatalf("Expected exactly one free unit added")
	}
	if flags.TotalDiscount != 300 {
		t.Errorf("Expected total discount 300, got %d", flags.TotalDiscount)
	}
}

func TestFreeItemMinQtyNotMet(t *testing.T) {
	lines := []*models.CartLine{testLine("p1", "c1", 500, 2)}
	calls := 0
	spec := freeSpec(
		&FreeProduct{ProductID: "free1", Price: 200, MaxQty: 1},
		Precondition{Rule: PurchaseMinQtyInScope, MinQty: 3},
	)

	flags := Allocate(lines, spec, appendingAddItem(&lines, &calls))

	if !flags.RequiresPurchaseNotMet {
		t.Error("Expected RequiresPurchaseNotMet flag")
	}
	if calls != 0 {
		t.Errorf("Expected no synthesized add, got %d", calls)
	}
	if flags.TotalDiscount != 0 {
		t.Errorf("Expected zero discount, got %d", flags.TotalDiscount)
	}
	if flags.UnitsInScope != 2 {
		t.Errorf("Expected 2 units in scope reported, got %d", flags.UnitsInScope)
	}
}

func TestFreeItemFlagReportsPresenceWhenLocked(t *testing.T) {
	// The shopper already carries the free product but the precondition is
	// unmet; the presence flag still reports it, with no discount.
	freeLine := testLine("free1", "c9", 400, 1)
	lines := []*models.CartLine{testLine("p1", "c1", 500, 1), freeLine}
	spec := freeSpec(
		&FreeProduct{ProductID: "free1", Price: 400, MaxQty: 1},
		Precondition{Rule: PurchaseMinQtyInScope, MinQty: 3},
	)

	flags := Allocate(lines, spec, nil)

	if !flags.RequiresPurchaseNotMet {
		t.Error("Expected RequiresPurchaseNotMet flag")
	}
	if !flags.FreeProductInCart {
		t.Error("Expected FreeProductInCart while the unlock is pending")
	}
	if flags.TotalDiscount != 0 {
		t.Errorf("Expected zero discount while locked, got %d", flags.TotalDiscount)
	}
	if freeLine.DiscountPerUnit != 0 {
		t.Errorf("Expected undiscounted free product line, got %d", freeLine.DiscountPerUnit)
	}
}

func TestFreeItemMinSubtotalUnlocksMultiple(t *testing.T) {
	// Subtotal 250 against a 100 threshold completes 2 groups.
	lines := []*models.CartLine{testLine("p1", "c1", 125, 2)}
	calls := 0
	spec := freeSpec(
		&FreeProduct{ProductID: "free1", Price: 400, MaxQty: 3},
		Precondition{Rule: PurchaseMinSubtotalInScope, MinSubtotal: 100},
	)

	flags := Allocate(lines, spec, appendingAddItem(&lines, &calls))

	if flags.GroupsCompleted != 2 {
		t.Errorf("Expected 2 groups from subtotal 250, got %d", flags.GroupsCompleted)
	}
	if flags.ActualMaxFree != 2 {
		t.Errorf("Expected 2 free units, got %d", flags.ActualMaxFree)
	}
	if len(lines) != 2 || lines[1].Quantity != 2 {
		t.Fatalf("Expected free line with 2 units")
	}
	if flags.TotalDiscount != 800 {
		t.Errorf("Expected total discount 800, got %d", flags.TotalDiscount)
	}
}

func TestFreeItemTopsUpExistingLine(t *testing.T) {
	// One of two unlocked units is already in the cart; only the missing
	// unit is synthesized.
	existing := testLine("free1", "c9", 400, 1)
	lines := []*models.CartLine{testLine("p1", "c1", 500, 4), existing}
	calls := 0
	addItem := func(free *FreeProduct, qty int) []*models.CartLine {
		calls++
		existing.Quantity += qty
		return lines
	}

	spec := freeSpec(
		&FreeProduct{ProductID: "free1", Price: 400, MaxQty: 2},
		Precondition{Rule: PurchaseBuyXInScope, BuyX: 2},
	)
	flags := Allocate(lines, spec, addItem)

	if calls != 1 {
		t.Fatalf("Expected one top-up add, got %d", calls)
	}
	if existing.Quantity != 2 {
		t.Errorf("Expected free line topped up to 2, got %d", existing.Quantity)
	}
	if flags.TotalDiscount != 800 {
		t.Errorf("Expected both free units discounted for 800, got %d", flags.TotalDiscount)
	}
}

func TestFreeItemNilAddItemLeavesUnfulfilled(t *testing.T) {
	lines := []*models.CartLine{testLine("p1", "c1", 500, 2)}
	spec := freeSpec(&FreeProduct{ProductID: "free1", Price: 200, MaxQty: 1}, Precondition{})

	flags := Allocate(lines, spec, nil)

	if len(lines) != 1 {
		t.Fatalf("Expected no line synthesized without an add hook")
	}
	if flags.FreeProductInCart {
		t.Error("Expected FreeProductInCart false when the product never lands")
	}
	if flags.TotalDiscount != 0 {
		t.Errorf("Expected zero discount, got %d", flags.TotalDiscount)
	}
}

func TestFreeItemPartialLineDiscount(t *testing.T) {
	// The free product's line holds more units than are unlocked; the
	// per-unit discount spreads one free unit across the line.
	freeLine := testLine("free1", "c9", 400, 2)
	lines := []*models.CartLine{testLine("p1", "c1", 500, 2), freeLine}
	spec := freeSpec(
		&FreeProduct{ProductID: "free1", Price: 400, MaxQty: 1},
		Precondition{Rule: PurchaseBuyXInScope, BuyX: 2},
	)

	flags := Allocate(lines, spec, nil)

	if freeLine.DiscountPerUnit != 200 {
		t.Errorf("Expected one free unit spread as 200 per unit, got %d", freeLine.DiscountPerUnit)
	}
	if flags.TotalDiscount != 400 {
		t.Errorf("Expected total discount 400, got %d", flags.TotalDiscount)
	}
}

func TestFreeItemMissingProductDegrades(t *testing.T) {
	lines := []*models.CartLine{testLine("p1", "c1", 500, 2)}
	spec := &DiscountSpec{Type: FreeItem}

	flags := Allocate(lines, spec, nil)

	if flags.TotalDiscount != 0 {
		t.Errorf("Expected spec without free product to allocate nothing, got %d", flags.TotalDiscount)
	}
}
