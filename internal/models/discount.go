package models

import (
	"time"
)

// Coupon type constants
const (
	CouponTypePercentage  = "percentage"
	CouponTypeFixedAmount = "fixed_amount"
)

// Usage type constants
const (
	UsageTypeOneTime     = "one_time"
	UsageTypeOncePerUser = "once_per_user"
	UsageTypeUnlimited   = "unlimited"
)

// CouponCode represents a simple coupon code in the database. Coupons cover
// the whole cart; richer scoped promotions come from the cuponera service.
type CouponCode struct {
	ID             int        `json:"id"`
	Code           string     `json:"code"`
	Description    string     `json:"description"`
	CouponType     string     `json:"coupon_type"`
	CouponValue    float64    `json:"coupon_value"`
	MinOrderAmount int        `json:"min_order_amount"`
	UsageType      string     `json:"usage_type"`
	MaxUses        *int       `json:"max_uses,omitempty"`
	UsedCount      int        `json:"used_count"`
	Active         bool       `json:"active"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	CreatedBy      *int       `json:"created_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CouponCodeRequest represents a request to create or update a coupon code.
type CouponCodeRequest struct {
	Code           string     `json:"code" binding:"required,min=2,max=50"`
	Description    string     `json:"description" binding:"required,min=1,max=500"`
	CouponType     string     `json:"coupon_type" binding:"required,oneof=percentage fixed_amount"`
	CouponValue    float64    `json:"coupon_value" binding:"required,gt=0"`
	MinOrderAmount int        `json:"min_order_amount" binding:"gte=0"`
	UsageType      string     `json:"usage_type" binding:"required,oneof=one_time once_per_user unlimited"`
	MaxUses        *int       `json:"max_uses,omitempty"`
	Active         bool       `json:"active"`
	StartDate      time.Time  `json:"start_date" binding:"required"`
	EndDate        *time.Time `json:"end_date,omitempty"`
}

// CouponCodeResponse represents a coupon code with computed status fields.
type CouponCodeResponse struct {
	ID              int        `json:"id"`
	Code            string     `json:"code"`
	Description     string     `json:"description"`
	CouponType      string     `json:"coupon_type"`
	CouponValue     float64    `json:"coupon_value"`
	MinOrderAmount  int        `json:"min_order_amount"`
	UsageType       string     `json:"usage_type"`
	MaxUses         *int       `json:"max_uses,omitempty"`
	UsedCount       int        `json:"used_count"`
	Active          bool       `json:"active"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	CreatedBy       *int       `json:"created_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	IsExpired       bool       `json:"is_expired"`
	IsUsageExceeded bool       `json:"is_usage_exceeded"`
}

// CouponCodeListResponse represents a paginated list of coupon codes.
type CouponCodeListResponse struct {
	CouponCodes []CouponCodeResponse `json:"coupon_codes"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
}

// ApplyCouponRequest represents a request to apply a coupon code to the cart.
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemCuponeraRequest represents a request to redeem a cuponera code.
type RedeemCuponeraRequest struct {
	Code      string `json:"code" binding:"required"`
	Date      string `json:"date"`
	RecordUse bool   `json:"record_use"`
}

// ApplyDiscountResponse is returned when a coupon or cuponera is applied.
type ApplyDiscountResponse struct {
	Applied         bool        `json:"applied"`
	Code            string      `json:"code"`
	Name            string      `json:"name,omitempty"`
	DiscountAmount  int         `json:"discount_amount"`
	OriginalTotal   int         `json:"original_total"`
	DiscountedTotal int         `json:"discounted_total"`
	Flags           interface{} `json:"flags,omitempty"`
	Message         string      `json:"message"`
}

// CouponCodeUsage represents a record of coupon code usage.
type CouponCodeUsage struct {
	ID           int       `json:"id"`
	CouponCodeID int       `json:"coupon_code_id"`
	UserID       *int      `json:"user_id,omitempty"`
	SessionID    string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CouponValidationResult represents the result of coupon code validation.
type CouponValidationResult struct {
	IsValid      bool        `json:"is_valid"`
	ErrorMessage string      `json:"error_message,omitempty"`
	CouponCode   *CouponCode `json:"coupon_code,omitempty"`
}
