package cuponera

import (
	"encoding/json"
	"testing"

	"salchimonster-backend/internal/pricing"
)

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }

func redeemWith(d *DiscountInfo) *RedeemResponse {
	return &RedeemResponse{
		Success:      true,
		CuponeraName: "Cuponera VIP",
		Discounts:    []RedeemDiscount{{DiscountID: "d1", Discount: d}},
	}
}

func TestMapRedemptionCartPercent(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:   "CART_PERCENT_OFF",
		Name:   "10% todo",
		Params: Params{Pct: floatPtr(10)},
	})

	spec := MapRedemption(resp, "ABC123", 1)
	if spec == nil {
		t.Fatal("Expected a spec")
	}
	if spec.Type != pricing.CartPercentOff || spec.Percent != 10 {
		t.Errorf("Unexpected mapping: %+v", spec)
	}
	if spec.Code != "ABC123" {
		t.Errorf("Expected entered code carried over, got %q", spec.Code)
	}
	if !spec.FromCuponera {
		t.Error("Expected FromCuponera set")
	}
	if spec.Name != "10% todo" {
		t.Errorf("Expected discount name preferred, got %q", spec.Name)
	}
}

func TestMapRedemptionPercentAlias(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:   "CART_PERCENT_OFF",
		Params: Params{Percent: floatPtr(15)},
	})

	spec := MapRedemption(resp, "ABC", 0)
	if spec == nil || spec.Percent != 15 {
		t.Fatalf("Expected percent alias honored, got %+v", spec)
	}
	if spec.Name != "Cuponera VIP" {
		t.Errorf("Expected cuponera name fallback, got %q", spec.Name)
	}
}

func TestMapRedemptionCategoryAmount(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:   "CATEGORY_AMOUNT_OFF",
		Params: Params{Amount: intPtr(500)},
		Scope:  ScopeInfo{ScopeType: "CATEGORY_IDS", CategoryIDs: []StringID{"7", "9"}},
	})

	spec := MapRedemption(resp, "ABC", 0)
	if spec == nil {
		t.Fatal("Expected a spec")
	}
	if spec.Type != pricing.CategoryAmountOff || spec.Amount != 500 {
		t.Errorf("Unexpected mapping: %+v", spec)
	}
	if spec.Scope.Type != pricing.ScopeCategory || len(spec.Scope.CategoryIDs) != 2 {
		t.Errorf("Unexpected scope: %+v", spec.Scope)
	}
}

func TestMapRedemptionFreeItem(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type: "FREE_ITEM",
		Params: Params{FreeItem: &FreeItemParams{Mode: "PRODUCT", ProductID: "42"}},
		Conditions: Conditions{
			RequiresPurchase: &RequiresPurchase{Rule: "BUY_X_IN_SCOPE", BuyX: 2},
		},
		Limits: Limits{MaxFreeQty: intPtr(3)},
	})
	resp.FreeProduct = &FreeProductInfo{ProductID: "42", Name: "Gaseosa", Price: 5000, Image: "http://img/42.png"}

	spec := MapRedemption(resp, "ABC", 0)
	if spec == nil {
		t.Fatal("Expected a spec")
	}
	if spec.Type != pricing.FreeItem {
		t.Fatalf("Expected FREE_ITEM, got %s", spec.Type)
	}
	if spec.Free == nil || spec.Free.ProductID != "42" || spec.Free.Price != 5000 {
		t.Errorf("Unexpected free product: %+v", spec.Free)
	}
	if spec.Free.MaxQty != 3 {
		t.Errorf("Expected max free qty 3 from limits, got %d", spec.Free.MaxQty)
	}
	if spec.Requires.Rule != pricing.PurchaseBuyXInScope || spec.Requires.BuyX != 2 {
		t.Errorf("Unexpected precondition: %+v", spec.Requires)
	}
}

func TestMapRedemptionFreeItemWithoutProductIsNil(t *testing.T) {
	resp := redeemWith(&DiscountInfo{Type: "FREE_ITEM"})

	if spec := MapRedemption(resp, "ABC", 0); spec != nil {
		t.Errorf("Expected nil when the free product cannot be resolved, got %+v", spec)
	}
}

func TestMapRedemptionBuyMPayN(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:          "BUY_M_PAY_N",
		Params:        Params{M: intPtr(3), N: intPtr(2)},
		SelectionRule: "MOST_EXPENSIVE_UNITS",
		Limits:        Limits{MaxGroups: intPtr(2)},
	})

	spec := MapRedemption(resp, "ABC", 0)
	if spec == nil {
		t.Fatal("Expected a spec")
	}
	if spec.M != 3 || spec.N != 2 || spec.MaxGroups != 2 {
		t.Errorf("Unexpected mapping: %+v", spec)
	}
	if spec.Selection != pricing.MostExpensiveUnits {
		t.Errorf("Expected MOST_EXPENSIVE_UNITS, got %s", spec.Selection)
	}
}

func TestMapRedemptionBuyXGetY(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:   "BUY_X_GET_Y_PERCENT_OFF",
		Params: Params{BuyQty: intPtr(1), GetQty: intPtr(1), DiscountPct: floatPtr(50)},
	})

	spec := MapRedemption(resp, "ABC", 0)
	if spec == nil {
		t.Fatal("Expected a spec")
	}
	if spec.BuyQty != 1 || spec.GetQty != 1 || spec.DiscountPct != 50 {
		t.Errorf("Unexpected mapping: %+v", spec)
	}
	if spec.Selection != pricing.CheapestUnits {
		t.Errorf("Expected default CHEAPEST_UNITS, got %s", spec.Selection)
	}
}

func TestMapRedemptionSiteExclusion(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:    "CART_PERCENT_OFF",
		Params:  Params{Pct: floatPtr(10)},
		SiteIDs: []int{2, 3},
	})

	if spec := MapRedemption(resp, "ABC", 1); spec != nil {
		t.Errorf("Expected nil for excluded site, got %+v", spec)
	}
	if spec := MapRedemption(resp, "ABC", 2); spec == nil {
		t.Error("Expected spec for included site")
	}
	// Site 0 means no site filtering on the storefront side.
	if spec := MapRedemption(resp, "ABC", 0); spec == nil {
		t.Error("Expected spec when no current site is configured")
	}
}

func TestMapRedemptionConditionsAndLimits(t *testing.T) {
	resp := redeemWith(&DiscountInfo{
		Type:       "CART_PERCENT_OFF",
		Params:     Params{Pct: floatPtr(10)},
		Conditions: Conditions{MinSubtotal: intPtr(20000)},
		Limits:     Limits{MaxDiscountAmount: intPtr(5000)},
	})

	spec := MapRedemption(resp, "ABC", 0)
	if spec == nil {
		t.Fatal("Expected a spec")
	}
	if spec.MinPurchase != 20000 {
		t.Errorf("Expected min purchase 20000, got %d", spec.MinPurchase)
	}
	if spec.MaxDiscountAmount != 5000 {
		t.Errorf("Expected max discount 5000, got %d", spec.MaxDiscountAmount)
	}
}

func TestMapRedemptionUnknownTypeIsNil(t *testing.T) {
	resp := redeemWith(&DiscountInfo{Type: "RAFFLE_TICKET"})

	if spec := MapRedemption(resp, "ABC", 0); spec != nil {
		t.Errorf("Expected nil for unknown type, got %+v", spec)
	}
}

func TestMapRedemptionMissingParamsIsNil(t *testing.T) {
	for _, d := range []*DiscountInfo{
		{Type: "CART_PERCENT_OFF"},
		{Type: "CART_AMOUNT_OFF"},
		{Type: "BUY_M_PAY_N", Params: Params{M: intPtr(3)}},
		{Type: "BUY_X_GET_Y_PERCENT_OFF", Params: Params{BuyQty: intPtr(1)}},
	} {
		if spec := MapRedemption(redeemWith(d), "ABC", 0); spec != nil {
			t.Errorf("Expected nil for %s with missing params, got %+v", d.Type, spec)
		}
	}
}

func TestMapRedemptionEmptyDiscountsIsNil(t *testing.T) {
	if spec := MapRedemption(&RedeemResponse{Success: true}, "ABC", 0); spec != nil {
		t.Errorf("Expected nil for empty discounts, got %+v", spec)
	}
	if spec := MapRedemption(nil, "ABC", 0); spec != nil {
		t.Errorf("Expected nil for nil response, got %+v", spec)
	}
}

func TestStringIDAcceptsNumbersAndStrings(t *testing.T) {
	var scope ScopeInfo
	payload := `{"scope_type":"PRODUCT_IDS","product_ids":[17,"abc",null]}`
	if err := json.Unmarshal([]byte(payload), &scope); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	got := ids(scope.ProductIDs)
	want := []string{"17", "abc", ""}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("id %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
