package handlers

import (
	"net/http"

	"salchimonster-backend/internal/cart"
	"salchimonster-backend/internal/middleware"
	"salchimonster-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CartHandler handles cart-related requests
type CartHandler struct {
	carts *cart.Manager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart returns the current cart contents
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildCartResponse(store))
}

// AddToCart adds an item to the cart. An item with the same product and
// modifier selections as an existing line merges into it.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	store.AddLine(&models.CartLine{
		ProductID:  req.ProductID,
		CategoryID: req.CategoryID,
		Name:       req.Name,
		BasePrice:  req.BasePrice,
		Quantity:   req.Quantity,
		IsCombo:    req.IsCombo,
		ImageURL:   req.ImageURL,
		Modifiers:  req.Modifiers,
		ComboItems: req.ComboItems,
	})

	c.JSON(http.StatusOK, buildCartResponse(store))
}

// UpdateCartItem sets the quantity of a cart line
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	signature := c.Param("signature")

	var req models.CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if !store.SetQuantity(signature, req.Quantity) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(store))
}

// IncrementCartItem adds one unit to a cart line
func (h *CartHandler) IncrementCartItem(c *gin.Context) {
	signature := c.Param("signature")

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if !store.Increment(signature) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(store))
}

// DecrementCartItem removes one unit from a cart line. The line disappears
// when its quantity reaches zero.
func (h *CartHandler) DecrementCartItem(c *gin.Context) {
	signature := c.Param("signature")

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if !store.Decrement(signature) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(store))
}

// RemoveFromCart removes a cart line entirely
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	signature := c.Param("signature")

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if !store.Remove(signature) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, buildCartResponse(store))
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	store.Clear()
	c.JSON(http.StatusOK, buildCartResponse(store))
}

// GetCartCount returns the number of units in the cart
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.CartCountResponse{Count: store.TotalItems()})
}

// sessionCart resolves the session's cart store, answering the request itself
// when no session is present.
func (h *CartHandler) sessionCart(c *gin.Context) (*cart.Store, bool) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return nil, false
	}
	return h.carts.Get(sessionID), true
}

// buildCartResponse assembles the cart payload with totals and the active
// discount's eligibility flags.
func buildCartResponse(store *cart.Store) models.CartResponse {
	resp := models.CartResponse{
		Items:          store.Snapshot(),
		TotalItems:     store.TotalItems(),
		Subtotal:       store.Subtotal(),
		DiscountAmount: store.TotalDiscount(),
		TotalPrice:     store.Total(),
	}

	if spec := store.ActiveSpec(); spec != nil {
		resp.AppliedDiscount = &models.AppliedDiscount{
			Code:         spec.Code,
			Name:         spec.Name,
			Type:         string(spec.Type),
			FromCuponera: spec.FromCuponera,
			Flags:        spec.Flags,
		}
	}

	return resp
}
