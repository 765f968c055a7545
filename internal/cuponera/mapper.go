package cuponera

import (
	"salchimonster-backend/internal/pricing"
)

// MapRedemption converts the first discount of the day into the spec the
// pricing engine consumes. It returns nil when there is no applicable
// discount, when the discount's site list excludes the current storefront
// site, or when the discount type is unknown; mapping never fails loudly.
func MapRedemption(resp *RedeemResponse, enteredCode string, currentSiteID int) *pricing.DiscountSpec {
	if resp == nil || len(resp.Discounts) == 0 {
		return nil
	}
	d := resp.Discounts[0].Discount
	if d == nil {
		return nil
	}

	if currentSiteID != 0 && len(d.SiteIDs) > 0 && !intInSlice(currentSiteID, d.SiteIDs) {
		return nil
	}

	name := d.Name
	if name == "" {
		name = resp.CuponeraName
	}
	if name == "" {
		name = "Cuponera"
	}

	spec := &pricing.DiscountSpec{
		Code:               enteredCode,
		Name:               name,
		FromCuponera:       true,
		CuponeraName:       resp.CuponeraName,
		UsesRemainingToday: resp.UsesRemainingToday,
		SiteIDs:            resp.CuponeraSiteIDs,
		Scope:              pricing.Scope{Type: pricing.ScopeAllItems},
	}
	if d.Conditions.MinSubtotal != nil && *d.Conditions.MinSubtotal > 0 {
		spec.MinPurchase = *d.Conditions.MinSubtotal
	}
	if d.Limits.MaxDiscountAmount != nil {
		spec.MaxDiscountAmount = *d.Limits.MaxDiscountAmount
	}

	switch d.Type {
	case "CART_PERCENT_OFF":
		pct := percentParam(d.Params)
		if pct == nil {
			return nil
		}
		spec.Type = pricing.CartPercentOff
		spec.Percent = *pct
		return spec

	case "CART_AMOUNT_OFF":
		if d.Params.Amount == nil {
			return nil
		}
		spec.Type = pricing.CartAmountOff
		spec.Amount = *d.Params.Amount
		return spec

	case "CATEGORY_PERCENT_OFF":
		pct := percentParam(d.Params)
		if pct == nil {
			return nil
		}
		spec.Type = pricing.CategoryPercentOff
		spec.Percent = *pct
		spec.Scope = pricing.Scope{Type: pricing.ScopeCategory, CategoryIDs: ids(d.Scope.CategoryIDs)}
		return spec

	case "CATEGORY_AMOUNT_OFF":
		if d.Params.Amount == nil {
			return nil
		}
		spec.Type = pricing.CategoryAmountOff
		spec.Amount = *d.Params.Amount
		spec.Scope = pricing.Scope{Type: pricing.ScopeCategory, CategoryIDs: ids(d.Scope.CategoryIDs)}
		return spec

	case "PRODUCT_PERCENT_OFF":
		pct := percentParam(d.Params)
		if pct == nil {
			return nil
		}
		spec.Type = pricing.ProductPercentOff
		spec.Percent = *pct
		spec.Scope = pricing.Scope{Type: pricing.ScopeProduct, ProductIDs: ids(d.Scope.ProductIDs)}
		return spec

	case "PRODUCT_AMOUNT_OFF":
		if d.Params.Amount == nil {
			return nil
		}
		spec.Type = pricing.ProductAmountOff
		spec.Amount = *d.Params.Amount
		spec.Scope = pricing.Scope{Type: pricing.ScopeProduct, ProductIDs: ids(d.Scope.ProductIDs)}
		return spec

	case "FREE_ITEM":
		free := freeProduct(d, resp)
		if free == nil {
			return nil
		}
		spec.Type = pricing.FreeItem
		spec.Free = free
		spec.Requires = requiresPurchase(d.Conditions.RequiresPurchase)
		spec.Scope = scopeFromInfo(d.Scope)
		return spec

	case "BUY_M_PAY_N":
		if d.Params.M == nil || d.Params.N == nil {
			return nil
		}
		spec.Type = pricing.BuyMPayN
		spec.M = *d.Params.M
		spec.N = *d.Params.N
		spec.Selection = selectionRule(d.SelectionRule)
		if d.Limits.MaxGroups != nil {
			spec.MaxGroups = *d.Limits.MaxGroups
		}
		spec.Scope = scopeFromInfo(d.Scope)
		return spec

	case "BUY_X_GET_Y_PERCENT_OFF":
		if d.Params.BuyQty == nil || d.Params.GetQty == nil || d.Params.DiscountPct == nil {
			return nil
		}
		spec.Type = pricing.BuyXGetYPercentOff
		spec.BuyQty = *d.Params.BuyQty
		spec.GetQty = *d.Params.GetQty
		spec.DiscountPct = *d.Params.DiscountPct
		spec.Selection = selectionRule(d.SelectionRule)
		if d.Limits.MaxGroups != nil {
			spec.MaxGroups = *d.Limits.MaxGroups
		}
		spec.Scope = scopeFromInfo(d.Scope)
		return spec
	}

	return nil
}

func percentParam(p Params) *float64 {
	if p.Pct != nil {
		return p.Pct
	}
	return p.Percent
}

func selectionRule(raw string) pricing.SelectionRule {
	if raw == string(pricing.MostExpensiveUnits) {
		return pricing.MostExpensiveUnits
	}
	return pricing.CheapestUnits
}

func requiresPurchase(rp *RequiresPurchase) pricing.Precondition {
	if rp == nil {
		return pricing.Precondition{Rule: pricing.PurchaseNone}
	}
	switch rp.Rule {
	case string(pricing.PurchaseBuyXInScope):
		return pricing.Precondition{Rule: pricing.PurchaseBuyXInScope, BuyX: rp.BuyX}
	case string(pricing.PurchaseMinQtyInScope):
		return pricing.Precondition{Rule: pricing.PurchaseMinQtyInScope, MinQty: rp.MinQty}
	case string(pricing.PurchaseMinSubtotalInScope):
		return pricing.Precondition{Rule: pricing.PurchaseMinSubtotalInScope, MinSubtotal: rp.MinSubtotal}
	}
	return pricing.Precondition{Rule: pricing.PurchaseNone}
}

// freeProduct merges the discount's free_item params with the response's
// enriched descriptor. The product id must resolve somewhere; price and
// name come from the descriptor when present.
func freeProduct(d *DiscountInfo, resp *RedeemResponse) *pricing.FreeProduct {
	free := &pricing.FreeProduct{MaxQty: 1}
	if d.Params.FreeItem != nil {
		free.ProductID = d.Params.FreeItem.ProductID.String()
	}
	if d.Limits.MaxFreeQty != nil && *d.Limits.MaxFreeQty > 0 {
		free.MaxQty = *d.Limits.MaxFreeQty
	}
	if fp := resp.FreeProduct; fp != nil {
		if free.ProductID == "" {
			free.ProductID = fp.ProductID.String()
		}
		free.Name = fp.Name
		free.Price = fp.Price
		free.ImageURL = fp.Image
		if fp.MaxQty > 0 && d.Limits.MaxFreeQty == nil {
			free.MaxQty = fp.MaxQty
		}
	}
	if free.ProductID == "" {
		return nil
	}
	return free
}

// scopeFromInfo maps the service's scope block, defaulting to all items.
func scopeFromInfo(info ScopeInfo) pricing.Scope {
	switch info.ScopeType {
	case "CATEGORY_IDS", "CATEGORY":
		if len(info.CategoryIDs) > 0 {
			return pricing.Scope{Type: pricing.ScopeCategory, CategoryIDs: ids(info.CategoryIDs)}
		}
	case "PRODUCT_IDS", "PRODUCT":
		if len(info.ProductIDs) > 0 {
			return pricing.Scope{Type: pricing.ScopeProduct, ProductIDs: ids(info.ProductIDs)}
		}
	}
	return pricing.Scope{Type: pricing.ScopeAllItems}
}
