package cuponera

import (
	"bytes"
	"encoding/json"
)

// StringID unmarshals an identifier that the redemption service may encode
// either as a JSON string or as a number.
type StringID string

func (s *StringID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = StringID(raw)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = StringID(num.String())
	return nil
}

func (s StringID) String() string { return string(s) }

// RedeemResponse is the payload of GET /redeem on the discounts service.
type RedeemResponse struct {
	Success            bool             `json:"success"`
	Message            string           `json:"message"`
	CuponeraName       string           `json:"cuponera_name"`
	Discounts          []RedeemDiscount `json:"discounts"`
	UsesRemainingToday *int             `json:"uses_remaining_today"`
	CuponeraSiteIDs    []int            `json:"cuponera_site_ids"`
	FreeProduct        *FreeProductInfo `json:"free_product"`
}

// RedeemDiscount wraps one discount of the day.
type RedeemDiscount struct {
	DiscountID string        `json:"discount_id"`
	Discount   *DiscountInfo `json:"discount"`
}

// DiscountInfo is the backend's discount definition.
type DiscountInfo struct {
	Type          string     `json:"type"`
	Name          string     `json:"name"`
	Params        Params     `json:"params"`
	Conditions    Conditions `json:"conditions"`
	Scope         ScopeInfo  `json:"scope"`
	Limits        Limits     `json:"limits"`
	SelectionRule string     `json:"selection_rule"`
	SiteIDs       []int      `json:"site_ids"`
}

// Params carries the variant-specific parameters. Pct and Percent are
// aliases; the service has emitted both spellings over time.
type Params struct {
	Pct         *float64        `json:"pct"`
	Percent     *float64        `json:"percent"`
	Amount      *int            `json:"amount"`
	M           *int            `json:"m"`
	N           *int            `json:"n"`
	BuyQty      *int            `json:"buy_qty"`
	GetQty      *int            `json:"get_qty"`
	DiscountPct *float64        `json:"discount_pct"`
	FreeItem    *FreeItemParams `json:"free_item"`
}

// FreeItemParams describes the product a FREE_ITEM discount gives away.
type FreeItemParams struct {
	Mode       string   `json:"mode"`
	ProductID  StringID `json:"product_id"`
	CategoryID StringID `json:"category_id"`
}

// Conditions holds the discount's preconditions.
type Conditions struct {
	MinSubtotal      *int              `json:"min_subtotal"`
	RequiresPurchase *RequiresPurchase `json:"requires_purchase"`
}

// RequiresPurchase is the free-item unlock rule.
type RequiresPurchase struct {
	Rule        string `json:"rule"`
	BuyX        int    `json:"buy_x"`
	MinQty      int    `json:"min_qty"`
	MinSubtotal int    `json:"min_subtotal"`
}

// ScopeInfo limits a discount to categories or products.
type ScopeInfo struct {
	ScopeType   string     `json:"scope_type"`
	CategoryIDs []StringID `json:"category_ids"`
	ProductIDs  []StringID `json:"product_ids"`
}

// Limits caps how much a discount can give.
type Limits struct {
	MaxDiscountAmount *int `json:"max_discount_amount"`
	MaxGroups         *int `json:"max_groups"`
	MaxFreeQty        *int `json:"max_free_qty"`
}

// FreeProductInfo enriches a FREE_ITEM discount with the product's
// storefront details.
type FreeProductInfo struct {
	ProductID StringID `json:"product_id"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	Image     string   `json:"image"`
	MaxQty    int      `json:"max_qty"`
}

// errorBody is the shape of a non-2xx response from the service.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func (e *errorBody) text() string {
	if len(e.Detail) > 0 {
		var s string
		if err := json.Unmarshal(e.Detail, &s); err == nil {
			return s
		}
		return string(e.Detail)
	}
	if e.Message != "" {
		return e.Message
	}
	return ""
}

func ids(in []StringID) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, id.String())
	}
	return out
}

func intInSlice(n int, in []int) bool {
	for _, candidate := range in {
		if candidate == n {
			return true
		}
	}
	return false
}
