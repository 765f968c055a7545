package pricing

// SpecType tags the discount variant a DiscountSpec describes.
type SpecType string

const (
	CartPercentOff      SpecType = "CART_PERCENT_OFF"
	CartAmountOff       SpecType = "CART_AMOUNT_OFF"
	CategoryPercentOff  SpecType = "CATEGORY_PERCENT_OFF"
	CategoryAmountOff   SpecType = "CATEGORY_AMOUNT_OFF"
	ProductPercentOff   SpecType = "PRODUCT_PERCENT_OFF"
	ProductAmountOff    SpecType = "PRODUCT_AMOUNT_OFF"
	FreeItem            SpecType = "FREE_ITEM"
	BuyMPayN            SpecType = "BUY_M_PAY_N"
	BuyXGetYPercentOff  SpecType = "BUY_X_GET_Y_PERCENT_OFF"
)

// SelectionRule picks which units inside a promotion group get discounted.
type SelectionRule string

const (
	CheapestUnits      SelectionRule = "CHEAPEST_UNITS"
	MostExpensiveUnits SelectionRule = "MOST_EXPENSIVE_UNITS"
)

// PurchaseRule names the free-item unlock precondition.
type PurchaseRule string

const (
	PurchaseNone               PurchaseRule = "NO_PRECONDITION"
	PurchaseBuyXInScope        PurchaseRule = "BUY_X_IN_SCOPE"
	PurchaseMinQtyInScope      PurchaseRule = "MIN_QTY_IN_SCOPE"
	PurchaseMinSubtotalInScope PurchaseRule = "MIN_SUBTOTAL_IN_SCOPE"
)

// Precondition describes what the shopper must buy for a free item to unlock.
// Only the field matching Rule is consulted.
type Precondition struct {
	Rule        PurchaseRule `json:"rule"`
	BuyX        int          `json:"buy_x,omitempty"`
	MinQty      int          `json:"min_qty,omitempty"`
	MinSubtotal int          `json:"min_subtotal,omitempty"`
}

// FreeProduct describes the product a FREE_ITEM discount gives away.
type FreeProduct struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	ImageURL  string `json:"image_url,omitempty"`
	MaxQty    int    `json:"max_qty"`
}

// DiscountSpec is one active promotion. Exactly one spec is active on a cart
// at a time. Fields beyond the common head are consulted only by the
// allocator matching Type; a missing field degrades to zero discount rather
// than an error.
type DiscountSpec struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Type         SpecType `json:"type"`
	FromCuponera bool     `json:"from_cuponera"`
	CuponeraName string   `json:"cuponera_name,omitempty"`

	// Percent/amount variants.
	Percent           float64 `json:"percent,omitempty"`
	Amount            int     `json:"amount,omitempty"`
	MaxDiscountAmount int     `json:"max_discount_amount,omitempty"`

	Scope Scope `json:"scope"`

	// FREE_ITEM.
	Free     *FreeProduct `json:"free_product,omitempty"`
	Requires Precondition `json:"requires_purchase,omitempty"`

	// BUY_M_PAY_N.
	M int `json:"m,omitempty"`
	N int `json:"n,omitempty"`

	// BUY_X_GET_Y_PERCENT_OFF.
	BuyQty      int     `json:"buy_qty,omitempty"`
	GetQty      int     `json:"get_qty,omitempty"`
	DiscountPct float64 `json:"discount_pct,omitempty"`

	MaxGroups int           `json:"max_groups,omitempty"`
	Selection SelectionRule `json:"selection_rule,omitempty"`

	// Preconditions shared by all variants.
	MinPurchase int   `json:"min_purchase,omitempty"`
	SiteIDs     []int `json:"site_ids,omitempty"`

	UsesRemainingToday *int `json:"uses_remaining_today,omitempty"`

	// Flags holds the result of the latest allocation over the cart.
	Flags Flags `json:"flags"`
}

// Flags describes whether the active discount's preconditions are currently
// satisfied. The storefront renders eligibility messaging from these.
type Flags struct {
	ScopeMatched      bool `json:"scope_matched"`
	TotalDiscount     int  `json:"total_discount"`
	MinPurchaseNotMet bool `json:"min_purchase_not_met"`

	// FREE_ITEM.
	FreeProductInCart      bool `json:"free_product_in_cart,omitempty"`
	RequiresPurchaseNotMet bool `json:"requires_purchase_not_met,omitempty"`
	UnitsInScope           int  `json:"units_in_scope,omitempty"`
	SubtotalInScope        int  `json:"subtotal_in_scope,omitempty"`
	GroupsCompleted        int  `json:"groups_completed,omitempty"`
	ActualMaxFree          int  `json:"actual_max_free,omitempty"`

	// BUY_M_PAY_N.
	BuyMPayNInCart    bool `json:"buy_m_pay_n_in_cart,omitempty"`
	BuyMPayNNeedsMore bool `json:"buy_m_pay_n_needs_more,omitempty"`
}

// percentBased reports whether the spec discounts by percentage of base price.
func (s *DiscountSpec) percentBased() bool {
	switch s.Type {
	case CartPercentOff, CategoryPercentOff, ProductPercentOff:
		return true
	}
	return false
}
