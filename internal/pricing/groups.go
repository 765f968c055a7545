package pricing

import (
	"sort"

	"salchimonster-backend/internal/models"
)

// cartUnit is one unit of quantity on a line, the granularity at which
// group promotions select what to discount.
type cartUnit struct {
	line  *models.CartLine
	price int
}

// allocateBuyMPayN implements "lleva M paga N": for every M eligible units of
// the same product, M−N of them are free. Groups never mix product keys; the
// global max_groups cap is spent greedily over keys in ascending order, which
// makes the allocation deterministic when the cap binds across products.
func allocateBuyMPayN(lines []*models.CartLine, spec *DiscountSpec, flags *Flags) {
	if spec.M <= 0 || spec.N < 0 || spec.N >= spec.M {
		return
	}

	perKey, keys, totalEligible := collectUnits(lines, spec)
	flags.UnitsInScope = totalEligible
	flags.ScopeMatched = totalEligible > 0

	remainingGroups := -1
	if spec.MaxGroups > 0 {
		remainingGroups = spec.MaxGroups
	}

	discounted := make(map[*models.CartLine]int)
	groupsTotal := 0
	for _, key := range keys {
		units := perKey[key]
		groups := len(units) / spec.M
		if remainingGroups >= 0 {
			if groups > remainingGroups {
				groups = remainingGroups
			}
			remainingGroups -= groups
		}
		if groups == 0 {
			continue
		}
		groupsTotal += groups

		sortUnits(units, spec.Selection)
		for _, u := range units[:groups*(spec.M-spec.N)] {
			discounted[u.line] += u.price
		}
	}

	flags.GroupsCompleted = groupsTotal
	flags.BuyMPayNInCart = groupsTotal > 0
	flags.BuyMPayNNeedsMore = groupsTotal == 0

	for line, total := range discounted {
		line.DiscountPerUnit = clampNonNegative(total / line.Quantity)
	}
}

// allocateBuyXGetY discounts get_qty units per completed group of
// buy_qty+get_qty eligible units of the same product key, each discounted
// unit receiving floor(price × discount_pct/100) rather than a full 100%.
func allocateBuyXGetY(lines []*models.CartLine, spec *DiscountSpec, flags *Flags) {
	if spec.BuyQty <= 0 || spec.GetQty <= 0 {
		return
	}
	groupSize := spec.BuyQty + spec.GetQty

	perKey, keys, totalEligible := collectUnits(lines, spec)
	flags.UnitsInScope = totalEligible
	flags.ScopeMatched = totalEligible > 0

	remainingGroups := -1
	if spec.MaxGroups > 0 {
		remainingGroups = spec.MaxGroups
	}

	discounted := make(map[*models.CartLine]int)
	groupsTotal := 0
	for _, key := range keys {
		units := perKey[key]
		groups := len(units) / groupSize
		if remainingGroups >= 0 {
			if groups > remainingGroups {
				groups = remainingGroups
			}
			remainingGroups -= groups
		}
		if groups == 0 {
			continue
		}
		groupsTotal += groups

		sortUnits(units, spec.Selection)
		for _, u := range units[:groups*spec.GetQty] {
			discounted[u.line] += floorPct(u.price, spec.DiscountPct)
		}
	}

	flags.GroupsCompleted = groupsTotal

	for line, total := range discounted {
		line.DiscountPerUnit = clampNonNegative(total / line.Quantity)
	}
}

// collectUnits expands eligible lines into per-unit entries grouped by
// promotion key: the category id for CATEGORY scope, the product id
// otherwise. Keys come back sorted ascending.
func collectUnits(lines []*models.CartLine, spec *DiscountSpec) (map[string][]cartUnit, []string, int) {
	perKey := make(map[string][]cartUnit)
	total := 0
	for _, l := range lines {
		if !spec.Scope.Contains(l) {
			continue
		}
		key := l.ProductID
		if spec.Scope.Type == ScopeCategory {
			key = l.CategoryID
		}
		for i := 0; i < l.Quantity; i++ {
			perKey[key] = append(perKey[key], cartUnit{line: l, price: l.BasePrice})
		}
		total += l.Quantity
	}

	keys := make([]string, 0, len(perKey))
	for key := range perKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return perKey, keys, total
}

// sortUnits orders units by price per the selection rule; the sort is stable
// so equal-priced units keep cart order.
func sortUnits(units []cartUnit, rule SelectionRule) {
	if rule == MostExpensiveUnits {
		sort.SliceStable(units, func(i, j int) bool { return units[i].price > units[j].price })
		return
	}
	sort.SliceStable(units, func(i, j int) bool { return units[i].price < units[j].price })
}
