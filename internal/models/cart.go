package models

import (
	"encoding/json"
	"fmt"
)

// CartModifier is one modifier selection attached to a cart line
// (an addition such as extra cheese, with its own unit price and quantity).
type CartModifier struct {
	ModifierID  int    `json:"modifier_id"`
	SelectionID int    `json:"selection_id"`
	Name        string `json:"name"`
	UnitPrice   int    `json:"unit_price"`
	Quantity    int    `json:"quantity"`
}

// ComboComponent is one base product bundled inside a combo line.
type ComboComponent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
}

// CartLine is one purchasable unit grouping in the cart. Lines with the same
// signature (product + modifier selections) merge by quantity instead of
// duplicating. All prices are integer currency units; DiscountPerUnit is
// recomputed from scratch by the pricing engine on every cart mutation.
type CartLine struct {
	Signature       string           `json:"signature"`
	ProductID       string           `json:"product_id"`
	CategoryID      string           `json:"category_id"`
	Name            string           `json:"name"`
	BasePrice       int              `json:"base_price"`
	Quantity        int              `json:"quantity"`
	DiscountPerUnit int              `json:"discount_per_unit"`
	IsCombo         bool             `json:"is_combo"`
	ImageURL        string           `json:"image_url,omitempty"`
	Modifiers       []CartModifier   `json:"modifiers,omitempty"`
	ComboItems      []ComboComponent `json:"combo_items,omitempty"`
}

// ModifiersPerUnit returns the modifier surcharge added to every unit of the line.
func (l *CartLine) ModifiersPerUnit() int {
	total := 0
	for _, m := range l.Modifiers {
		qty := m.Quantity
		if qty < 1 {
			qty = 1
		}
		total += m.UnitPrice * qty
	}
	return total
}

// Subtotal is the line price before any discount.
func (l *CartLine) Subtotal() int {
	return (l.BasePrice + l.ModifiersPerUnit()) * l.Quantity
}

// Total is the line price with the per-unit discount applied. The discounted
// base price never goes below zero; modifiers are never discounted.
func (l *CartLine) Total() int {
	base := l.BasePrice - l.DiscountPerUnit
	if base < 0 {
		base = 0
	}
	return (base + l.ModifiersPerUnit()) * l.Quantity
}

// LineSignature derives the identity key of a cart line from its product and
// serialized modifier selections. Two lines with equal signatures are the
// same purchasable unit and must merge.
func LineSignature(productID string, modifiers []CartModifier) string {
	type sel struct {
		ID       int `json:"id"`
		Quantity int `json:"quantity"`
	}
	sels := make([]sel, 0, len(modifiers))
	for _, m := range modifiers {
		sels = append(sels, sel{ID: m.SelectionID, Quantity: m.Quantity})
	}
	raw, _ := json.Marshal(sels)
	return fmt.Sprintf("%s-%s", productID, raw)
}

// CartItemRequest represents the request to add an item to the cart.
type CartItemRequest struct {
	ProductID  string           `json:"product_id" binding:"required"`
	CategoryID string           `json:"category_id"`
	Name       string           `json:"name" binding:"required"`
	BasePrice  int              `json:"base_price" binding:"gte=0"`
	Quantity   int              `json:"quantity" binding:"required,min=1"`
	IsCombo    bool             `json:"is_combo"`
	ImageURL   string           `json:"image_url"`
	Modifiers  []CartModifier   `json:"modifiers"`
	ComboItems []ComboComponent `json:"combo_items"`
}

// CartItemUpdateRequest represents the request to update a cart line quantity.
type CartItemUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AppliedDiscount describes the active discount attached to a cart response,
// including the eligibility flags the storefront uses to explain state.
type AppliedDiscount struct {
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	FromCuponera bool        `json:"from_cuponera"`
	Flags        interface{} `json:"flags"`
}

// CartResponse represents the full cart with items and totals.
type CartResponse struct {
	Items           []CartLine       `json:"items"`
	TotalItems      int              `json:"total_items"`
	Subtotal        int              `json:"subtotal"`
	DiscountAmount  int              `json:"discount_amount"`
	TotalPrice      int              `json:"total_price"`
	AppliedDiscount *AppliedDiscount `json:"applied_discount,omitempty"`
}

// CartCountResponse represents the cart item count.
type CartCountResponse struct {
	Count int `json:"count"`
}
