package pricing

import (
	"math"

	"salchimonster-backend/internal/models"
)

// AddItemFunc lets the free-item allocator synthesize an add-to-cart for the
// free product. It must add without triggering reallocation and return the
// updated line slice, or nil if the add failed (the allocation is then left
// unfulfilled until the next cart mutation retries from scratch).
type AddItemFunc func(free *FreeProduct, qty int) []*models.CartLine

// Allocate recomputes the per-line discount allocation from scratch: every
// line's discount is reset to zero, then the allocator matching the spec's
// variant runs over the eligible lines. It returns the flags describing
// whether the discount's preconditions are satisfied. Allocate is pure
// in-memory arithmetic; calling it twice with the same cart and spec yields
// identical allocations.
func Allocate(lines []*models.CartLine, spec *DiscountSpec, addItem AddItemFunc) Flags {
	for _, l := range lines {
		l.DiscountPerUnit = 0
	}

	var flags Flags
	if spec == nil {
		return flags
	}

	if spec.MinPurchase > 0 && cartSubtotal(lines) < spec.MinPurchase {
		// The discount stays nominally active; nothing is allocated until
		// the cart grows past the threshold.
		flags.MinPurchaseNotMet = true
		return flags
	}

	switch spec.Type {
	case CartPercentOff, CartAmountOff,
		CategoryPercentOff, CategoryAmountOff,
		ProductPercentOff, ProductAmountOff:
		allocateScoped(lines, spec, &flags)
	case FreeItem:
		lines = allocateFreeItem(lines, spec, addItem, &flags)
	case BuyMPayN:
		allocateBuyMPayN(lines, spec, &flags)
	case BuyXGetYPercentOff:
		allocateBuyXGetY(lines, spec, &flags)
	}

	flags.TotalDiscount = totalDiscount(lines)
	return flags
}

// allocateScoped handles the percent and amount variants. Percent discounts
// floor per unit; a CART amount is split evenly across all eligible units
// with the division remainder dropped; scoped amounts apply flat per unit.
// A max_discount_amount cap is tracked as a running total and the line that
// would overflow it is scaled down to exhaust the budget exactly.
func allocateScoped(lines []*models.CartLine, spec *DiscountSpec, flags *Flags) {
	var eligible []*models.CartLine
	totalUnits := 0
	for _, l := range lines {
		if spec.Scope.Contains(l) {
			eligible = append(eligible, l)
			totalUnits += l.Quantity
		}
	}
	if len(eligible) == 0 || totalUnits == 0 {
		return
	}
	flags.ScopeMatched = true

	evenSplit := 0
	if spec.Type == CartAmountOff {
		evenSplit = clampNonNegative(spec.Amount / totalUnits)
	}

	cap := spec.MaxDiscountAmount
	applied := 0
	for _, l := range eligible {
		var perUnit int
		switch {
		case spec.percentBased():
			perUnit = floorPct(l.BasePrice, spec.Percent)
		case spec.Type == CartAmountOff:
			perUnit = evenSplit
		default:
			perUnit = clampNonNegative(spec.Amount)
		}

		if cap > 0 && applied+perUnit*l.Quantity > cap {
			perUnit = clampNonNegative((cap - applied) / l.Quantity)
		}

		l.DiscountPerUnit = perUnit
		applied += perUnit * l.Quantity
		if cap > 0 && applied >= cap {
			break
		}
	}
}

func cartSubtotal(lines []*models.CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

func totalDiscount(lines []*models.CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.DiscountPerUnit * l.Quantity
	}
	return total
}

// floorPct computes floor(base × pct/100), clamped to a non-negative value.
// Flooring deliberately under-discounts rather than over-discounts.
func floorPct(base int, pct float64) int {
	return clampNonNegative(int(math.Floor(float64(base) * pct / 100)))
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
