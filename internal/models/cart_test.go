package models

import "testing"

func TestLineSignatureStableForSameSelections(t *testing.T) {
	mods := []CartModifier{{SelectionID: 3, Quantity: 1}, {SelectionID: 5, Quantity: 2}}

	a := LineSignature("p1", mods)
	b := LineSignature("p1", mods)
	if a != b {
		t.Errorf("Expected identical signatures, got %q and %q", a, b)
	}

	c := LineSignature("p1", []CartModifier{{SelectionID: 3, Quantity: 2}, {SelectionID: 5, Quantity: 2}})
	if a == c {
		t.Error("Expected different modifier quantities to change the signature")
	}

	d := LineSignature("p2", mods)
	if a == d {
		t.Error("Expected different products to change the signature")
	}
}

func TestLineSignatureWithoutModifiers(t *testing.T) {
	a := LineSignature("p1", nil)
	b := LineSignature("p1", []CartModifier{})
	if a != b {
		t.Errorf("Expected nil and empty modifiers to agree, got %q and %q", a, b)
	}
}

func TestCartLineTotals(t *testing.T) {
	line := &CartLine{
		BasePrice: 100,
		Quantity:  2,
		Modifiers: []CartModifier{{SelectionID: 1, UnitPrice: 25, Quantity: 2}},
	}

	if got := line.ModifiersPerUnit(); got != 50 {
		t.Errorf("Expected modifier surcharge 50, got %d", got)
	}
	if got := line.Subtotal(); got != 300 {
		t.Errorf("Expected subtotal 300, got %d", got)
	}

	line.DiscountPerUnit = 40
	if got := line.Total(); got != 220 {
		t.Errorf("Expected total 220, got %d", got)
	}

	// The discounted base never goes negative, and the surcharge survives.
	line.DiscountPerUnit = 500
	if got := line.Total(); got != 100 {
		t.Errorf("Expected clamped total 100, got %d", got)
	}
}
