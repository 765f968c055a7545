package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"salchimonster-backend/internal/cart"
	"salchimonster-backend/internal/cuponera"
	"salchimonster-backend/internal/database"
	"salchimonster-backend/internal/middleware"
	"salchimonster-backend/internal/models"
)

type DiscountHandler struct {
	couponQueries  *database.CouponQueries
	cuponeraClient *cuponera.Client
	carts          *cart.Manager
	siteID         int
}

func NewDiscountHandler(couponQueries *database.CouponQueries, cuponeraClient *cuponera.Client, carts *cart.Manager, siteID int) *DiscountHandler {
	return &DiscountHandler{
		couponQueries:  couponQueries,
		cuponeraClient: cuponeraClient,
		carts:          carts,
		siteID:         siteID,
	}
}

// ApplyCoupon applies a coupon code to the current cart. When a cuponera
// discount is already active the coupon is rejected; cuponera wins.
func (h *DiscountHandler) ApplyCoupon(c *gin.Context) {
	var req models.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Normalize coupon code to uppercase
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return
	}
	store := h.carts.Get(sessionID)

	if store.TotalItems() == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	userID := middleware.GetUserID(c)
	subtotal := store.Subtotal()

	validationResult, err := h.couponQueries.ValidateCouponCode(code, subtotal, userID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon code"})
		return
	}

	if !validationResult.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationResult.ErrorMessage})
		return
	}

	spec := database.BuildDiscountSpec(validationResult.CouponCode)
	if !store.ApplyCoupon(spec) {
		c.JSON(http.StatusConflict, gin.H{"error": "A cuponera discount is already active"})
		return
	}

	// Usage counts toward the code's limits as soon as it is applied.
	if err := h.couponQueries.RecordCouponUsage(validationResult.CouponCode.ID, userID, sessionID); err != nil {
		store.RemoveCoupon()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record coupon usage"})
		return
	}

	active := store.ActiveSpec()
	c.JSON(http.StatusOK, models.ApplyDiscountResponse{
		Applied:         true,
		Code:            active.Code,
		Name:            active.Name,
		DiscountAmount:  store.TotalDiscount(),
		OriginalTotal:   subtotal,
		DiscountedTotal: store.Total(),
		Flags:           active.Flags,
		Message:         "Coupon applied successfully",
	})
}

// RedeemCuponera redeems a cuponera code against the external service and
// applies the resulting discount to the cart. An active coupon is replaced.
func (h *DiscountHandler) RedeemCuponera(c *gin.Context) {
	var req models.RedeemCuponeraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return
	}
	store := h.carts.Get(sessionID)

	subtotal := store.Subtotal()

	resp, err := h.cuponeraClient.Redeem(c.Request.Context(), req.Code, req.Date, req.RecordUse)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	spec := cuponera.MapRedemption(resp, req.Code, h.siteID)
	if spec == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cuponera code is not valid for this site"})
		return
	}

	store.ApplyCuponera(spec)

	active := store.ActiveSpec()
	c.JSON(http.StatusOK, models.ApplyDiscountResponse{
		Applied:         true,
		Code:            active.Code,
		Name:            active.Name,
		DiscountAmount:  store.TotalDiscount(),
		OriginalTotal:   subtotal,
		DiscountedTotal: store.Total(),
		Flags:           active.Flags,
		Message:         "Cuponera discount applied",
	})
}

// RemoveCoupon removes the applied coupon from the cart
func (h *DiscountHandler) RemoveCoupon(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return
	}

	store := h.carts.Get(sessionID)
	store.RemoveCoupon()

	c.JSON(http.StatusOK, gin.H{"message": "Coupon removed successfully"})
}

// RemoveCuponera removes the applied cuponera discount from the cart
func (h *DiscountHandler) RemoveCuponera(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return
	}

	store := h.carts.Get(sessionID)
	store.RemoveCuponera()

	c.JSON(http.StatusOK, gin.H{"message": "Cuponera discount removed successfully"})
}

// Admin endpoints below

// CreateCouponCode creates a new coupon code (admin only)
func (h *DiscountHandler) CreateCouponCode(c *gin.Context) {
	var req models.CouponCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	// Normalize code to uppercase
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	if req.CouponType == models.CouponTypePercentage && req.CouponValue > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Percentage discount cannot exceed 100%"})
		return
	}

	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be after start date"})
		return
	}

	adminUserID := userID.(int)
	couponCode, err := h.couponQueries.CreateCouponCode(&req, adminUserID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon code"})
		return
	}

	c.JSON(http.StatusCreated, couponCode)
}

// GetCouponCodes lists all coupon codes (admin only)
func (h *DiscountHandler) GetCouponCodes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	active := c.Query("active")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var activeFilter *bool
	if active == "true" {
		activeTrue := true
		activeFilter = &activeTrue
	} else if active == "false" {
		activeFalse := false
		activeFilter = &activeFalse
	}

	couponCodes, err := h.couponQueries.GetCouponCodes(page, limit, activeFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get coupon codes"})
		return
	}

	c.JSON(http.StatusOK, couponCodes)
}

// GetCouponCode gets a specific coupon code (admin only)
func (h *DiscountHandler) GetCouponCode(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code ID"})
		return
	}

	couponCode, err := h.couponQueries.GetCouponCodeByID(id)
	if err != nil {
		if err.Error() == "coupon code not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon code not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get coupon code"})
		return
	}

	c.JSON(http.StatusOK, couponCode)
}

// UpdateCouponCode updates a coupon code (admin only)
func (h *DiscountHandler) UpdateCouponCode(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code ID"})
		return
	}

	var req models.CouponCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Normalize code to uppercase
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))

	if req.CouponType == models.CouponTypePercentage && req.CouponValue > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Percentage discount cannot exceed 100%"})
		return
	}

	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must be after start date"})
		return
	}

	couponCode, err := h.couponQueries.UpdateCouponCode(id, &req)
	if err != nil {
		if err.Error() == "coupon code not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon code not found"})
			return
		}
		if strings.Contains(err.Error(), "duplicate key") {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon code"})
		return
	}

	c.JSON(http.StatusOK, couponCode)
}

// DeleteCouponCode deletes a coupon code (admin only)
func (h *DiscountHandler) DeleteCouponCode(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code ID"})
		return
	}

	err = h.couponQueries.DeleteCouponCode(id)
	if err != nil {
		if err.Error() == "coupon code not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon code not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon code deleted successfully"})
}

// GetCouponCodeUsage gets usage statistics for a coupon code (admin only)
func (h *DiscountHandler) GetCouponCodeUsage(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code ID"})
		return
	}

	usage, err := h.couponQueries.GetCouponCodeUsage(id)
	if err != nil {
		if err.Error() == "coupon code not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Coupon code not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get usage statistics"})
		return
	}

	c.JSON(http.StatusOK, usage)
}
