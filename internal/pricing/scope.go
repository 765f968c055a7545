package pricing

import (
	"salchimonster-backend/internal/models"
)

// ScopeType selects which cart lines participate in a discount.
type ScopeType string

const (
	ScopeAllItems ScopeType = "ALL_ITEMS"
	ScopeCategory ScopeType = "CATEGORY"
	ScopeProduct  ScopeType = "PRODUCT"
)

// Scope resolves the subset of cart lines a discount applies to. Identifiers
// are compared as strings. A CATEGORY or PRODUCT scope with an empty id list
// matches nothing, so a partially specified discount degrades to zero
// discount instead of failing.
type Scope struct {
	Type        ScopeType `json:"type"`
	CategoryIDs []string  `json:"category_ids,omitempty"`
	ProductIDs  []string  `json:"product_ids,omitempty"`
}

// Contains reports whether the line falls within the scope.
func (s Scope) Contains(line *models.CartLine) bool {
	switch s.Type {
	case ScopeCategory:
		return containsString(s.CategoryIDs, line.CategoryID)
	case ScopeProduct:
		return containsString(s.ProductIDs, line.ProductID)
	default:
		return true
	}
}

func containsString(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
