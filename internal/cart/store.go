package cart

import (
	"log"
	"sync"

	"salchimonster-backend/internal/models"
	"salchimonster-backend/internal/pricing"
)

// Store is the in-memory cart of one session. Lines merge by signature; every
// mutation triggers a from-scratch discount reallocation through the pricing
// engine. One discount spec is active at a time, with cuponera-sourced specs
// taking precedence over simple coupons.
type Store struct {
	mu         sync.Mutex
	lines      []*models.CartLine
	coupon     *pricing.DiscountSpec
	cuponera   *pricing.DiscountSpec
	allocating bool
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{}
}

// AddLine adds a line to the cart, merging by signature if a line with the
// same product and modifier selections already exists. line.Quantity is the
// quantity to add.
func (s *Store) AddLine(line *models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLineLocked(line)
	s.reallocateLocked()
}

func (s *Store) addLineLocked(line *models.CartLine) {
	line.Signature = models.LineSignature(line.ProductID, line.Modifiers)
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	for _, existing := range s.lines {
		if existing.Signature == line.Signature {
			existing.Quantity += line.Quantity
			return
		}
	}
	s.lines = append(s.lines, line)
}

// Remove deletes the line with the given signature. Returns false if absent.
func (s *Store) Remove(signature string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines {
		if l.Signature == signature {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.reallocateLocked()
			return true
		}
	}
	return false
}

// Increment adds one unit to the line with the given signature.
func (s *Store) Increment(signature string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if l.Signature == signature {
			l.Quantity++
			s.reallocateLocked()
			return true
		}
	}
	return false
}

// Decrement removes one unit from the line with the given signature; the
// line itself is removed when its quantity reaches zero.
func (s *Store) Decrement(signature string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines {
		if l.Signature == signature {
			l.Quantity--
			if l.Quantity <= 0 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			}
			s.reallocateLocked()
			return true
		}
	}
	return false
}

// SetQuantity sets the quantity of the line with the given signature.
// A quantity of zero or less removes the line.
func (s *Store) SetQuantity(signature string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.lines {
		if l.Signature == signature {
			if quantity <= 0 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			} else {
				l.Quantity = quantity
			}
			s.reallocateLocked()
			return true
		}
	}
	return false
}

// IncrementModifier bumps one modifier selection on a line. The line keeps
// its signature; modifier quantity changes do not split lines.
func (s *Store) IncrementModifier(signature string, selectionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if l.Signature != signature {
			continue
		}
		for i := range l.Modifiers {
			if l.Modifiers[i].SelectionID == selectionID {
				l.Modifiers[i].Quantity++
				s.reallocateLocked()
				return true
			}
		}
	}
	return false
}

// DecrementModifier lowers one modifier selection on a line, removing the
// selection when its quantity drops below one.
func (s *Store) DecrementModifier(signature string, selectionID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lines {
		if l.Signature != signature {
			continue
		}
		for i := range l.Modifiers {
			if l.Modifiers[i].SelectionID == selectionID {
				l.Modifiers[i].Quantity--
				if l.Modifiers[i].Quantity < 1 {
					l.Modifiers = append(l.Modifiers[:i], l.Modifiers[i+1:]...)
				}
				s.reallocateLocked()
				return true
			}
		}
	}
	return false
}

// Clear empties the cart. The active discount, if any, stays entered and
// will reallocate when lines return.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.reallocateLocked()
}

// ApplyCoupon activates a simple coupon. Rejected as a no-op while a
// cuponera is active: cuponera takes priority.
func (s *Store) ApplyCoupon(spec *pricing.DiscountSpec) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spec == nil {
		return false
	}
	if s.cuponera != nil {
		log.Printf("cart: ignoring coupon %q, cuponera %q is active", spec.Code, s.cuponera.Code)
		return false
	}
	s.coupon = spec
	s.reallocateLocked()
	return true
}

// ApplyCuponera activates a cuponera-sourced spec, clearing any coupon.
func (s *Store) ApplyCuponera(spec *pricing.DiscountSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if spec == nil {
		return
	}
	spec.FromCuponera = true
	s.cuponera = spec
	s.coupon = nil
	s.reallocateLocked()
}

// RemoveCoupon clears the active coupon and zeroes all line discounts.
func (s *Store) RemoveCoupon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = nil
	s.reallocateLocked()
}

// RemoveCuponera clears the active cuponera and zeroes all line discounts.
func (s *Store) RemoveCuponera() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cuponera = nil
	s.reallocateLocked()
}

// ActiveSpec returns the discount currently applied to the cart, preferring
// the cuponera over a coupon.
func (s *Store) ActiveSpec() *pricing.DiscountSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSpecLocked()
}

func (s *Store) activeSpecLocked() *pricing.DiscountSpec {
	if s.cuponera != nil {
		return s.cuponera
	}
	return s.coupon
}

// reallocateLocked recomputes the allocation from scratch. The allocating
// flag guards the free-item allocator's synthesized add-to-cart from
// recursing into another allocation pass.
func (s *Store) reallocateLocked() {
	if s.allocating {
		return
	}
	s.allocating = true
	defer func() { s.allocating = false }()

	spec := s.activeSpecLocked()
	if spec == nil {
		for _, l := range s.lines {
			l.DiscountPerUnit = 0
		}
		return
	}
	spec.Flags = pricing.Allocate(s.lines, spec, s.addFreeItem)
}

// addFreeItem is the engine's hook for adding the free product mid
// allocation. It merges by signature like any other add but never triggers
// reallocation, since one is already running.
func (s *Store) addFreeItem(free *pricing.FreeProduct, qty int) []*models.CartLine {
	s.addLineLocked(&models.CartLine{
		ProductID: free.ProductID,
		Name:      free.Name,
		BasePrice: free.Price,
		Quantity:  qty,
		ImageURL:  free.ImageURL,
	})
	return s.lines
}

// Snapshot returns a value copy of the cart lines for serialization.
func (s *Store) Snapshot() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartLine, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, *l)
	}
	return out
}

// TotalItems returns the total unit count across all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal returns the cart price before discounts.
func (s *Store) Subtotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// TotalDiscount returns the discount applied across all lines.
func (s *Store) TotalDiscount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.DiscountPerUnit * l.Quantity
	}
	return total
}

// Total returns the cart price with discounts applied.
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Total()
	}
	return total
}
