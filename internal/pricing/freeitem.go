package pricing

import (
	"salchimonster-backend/internal/models"
)

// allocateFreeItem runs the free-item precondition state machine and, when
// unlocked, discounts the free product 100%. If the free product is missing
// from the cart it is added through addItem; a nil or failed addItem leaves
// the unlock unfulfilled with no retry. Returns the line slice, which may
// have grown by the synthesized line.
func allocateFreeItem(lines []*models.CartLine, spec *DiscountSpec, addItem AddItemFunc, flags *Flags) []*models.CartLine {
	if spec.Free == nil || spec.Free.ProductID == "" {
		return lines
	}

	maxFree := spec.Free.MaxQty
	if maxFree <= 0 {
		maxFree = 1
	}

	units, subtotal := 0, 0
	for _, l := range lines {
		if spec.Scope.Contains(l) {
			units += l.Quantity
			subtotal += l.Subtotal()
		}
	}
	flags.UnitsInScope = units
	flags.SubtotalInScope = subtotal
	flags.ScopeMatched = units > 0

	groups := 0
	switch spec.Requires.Rule {
	case PurchaseBuyXInScope:
		if spec.Requires.BuyX > 0 {
			groups = units / spec.Requires.BuyX
		}
	case PurchaseMinQtyInScope:
		if spec.Requires.MinQty > 0 && units >= spec.Requires.MinQty {
			groups = units / spec.Requires.MinQty
		}
	case PurchaseMinSubtotalInScope:
		if spec.Requires.MinSubtotal > 0 && subtotal >= spec.Requires.MinSubtotal {
			groups = subtotal / spec.Requires.MinSubtotal
		}
	default:
		// No precondition always unlocks one free unit.
		groups = 1
	}
	flags.GroupsCompleted = groups

	actual := groups
	if actual > maxFree {
		actual = maxFree
	}
	flags.ActualMaxFree = actual

	present := 0
	for _, l := range lines {
		if l.ProductID == spec.Free.ProductID {
			present += l.Quantity
		}
	}
	flags.FreeProductInCart = present > 0

	if actual == 0 {
		flags.RequiresPurchaseNotMet = true
		return lines
	}

	if present < actual && addItem != nil {
		if updated := addItem(spec.Free, actual-present); updated != nil {
			lines = updated
		}
	}

	// Fill oldest line first until the unlocked quantity is spent.
	remaining := actual
	for _, l := range lines {
		if remaining == 0 {
			break
		}
		if l.ProductID != spec.Free.ProductID || l.Quantity == 0 {
			continue
		}
		flags.FreeProductInCart = true
		freeUnits := remaining
		if freeUnits > l.Quantity {
			freeUnits = l.Quantity
		}
		l.DiscountPerUnit = clampNonNegative(l.BasePrice * freeUnits / l.Quantity)
		remaining -= freeUnits
	}

	return lines
}
