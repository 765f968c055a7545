package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"salchimonster-backend/internal/models"
	"salchimonster-backend/internal/pricing"
)

type CouponQueries struct {
	db *sql.DB
}

func NewCouponQueries(db *sql.DB) *CouponQueries {
	return &CouponQueries{db: db}
}

// ValidateCouponCode validates a coupon code against the current cart subtotal
// and returns validation result
func (q *CouponQueries) ValidateCouponCode(code string, cartSubtotal int, userID *int, sessionID string) (*models.CouponValidationResult, error) {
	couponCode, err := q.GetCouponCodeByCode(code)
	if err != nil {
		if err.Error() == "coupon code not found" {
			return &models.CouponValidationResult{
				IsValid:      false,
				ErrorMessage: "Invalid coupon code",
			}, nil
		}
		return nil, fmt.Errorf("failed to get coupon code: %w", err)
	}

	// Check if code is active
	if !couponCode.Active {
		return &models.CouponValidationResult{
			IsValid:      false,
			ErrorMessage: "Coupon code is not active",
		}, nil
	}

	// Check date validity
	now := time.Now()
	if now.Before(couponCode.StartDate) {
		return &models.CouponValidationResult{
			IsValid:      false,
			ErrorMessage: "Coupon code is not yet valid",
		}, nil
	}

	if couponCode.EndDate != nil && now.After(*couponCode.EndDate) {
		return &models.CouponValidationResult{
			IsValid:      false,
			ErrorMessage: "Coupon code has expired",
		}, nil
	}

	// Check minimum order amount
	if cartSubtotal < couponCode.MinOrderAmount {
		return &models.CouponValidationResult{
			IsValid:      false,
			ErrorMessage: fmt.Sprintf("Minimum order amount of %d required", couponCode.MinOrderAmount),
		}, nil
	}

	// Check usage limits
	usageValid, err := q.validateUsageLimits(couponCode, userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate usage limits: %w", err)
	}
	if !usageValid.IsValid {
		return usageValid, nil
	}

	return &models.CouponValidationResult{
		IsValid:    true,
		CouponCode: couponCode,
	}, nil
}

// validateUsageLimits checks if the coupon code can be used based on usage type
func (q *CouponQueries) validateUsageLimits(couponCode *models.CouponCode, userID *int, sessionID string) (*models.CouponValidationResult, error) {
	switch couponCode.UsageType {
	case models.UsageTypeOneTime:
		// Check if the code has been used at all
		if couponCode.UsedCount > 0 {
			return &models.CouponValidationResult{
				IsValid:      false,
				ErrorMessage: "Coupon code has already been used",
			}, nil
		}

	case models.UsageTypeOncePerUser:
		if userID != nil {
			hasUsed, err := q.hasUserUsedCode(couponCode.ID, *userID)
			if err != nil {
				return nil, fmt.Errorf("failed to check user usage: %w", err)
			}
			if hasUsed {
				return &models.CouponValidationResult{
					IsValid:      false,
					ErrorMessage: "You have already used this coupon code",
				}, nil
			}
		} else {
			// For guest users, check by session
			hasUsed, err := q.hasSessionUsedCode(couponCode.ID, sessionID)
			if err != nil {
				return nil, fmt.Errorf("failed to check session usage: %w", err)
			}
			if hasUsed {
				return &models.CouponValidationResult{
					IsValid:      false,
					ErrorMessage: "This coupon code has already been used",
				}, nil
			}
		}

	case models.UsageTypeUnlimited:
		// Check max uses if specified
		if couponCode.MaxUses != nil && couponCode.UsedCount >= *couponCode.MaxUses {
			return &models.CouponValidationResult{
				IsValid:      false,
				ErrorMessage: "Coupon code usage limit reached",
			}, nil
		}
	}

	return &models.CouponValidationResult{IsValid: true}, nil
}

// hasUserUsedCode checks if a user has used a specific coupon code
func (q *CouponQueries) hasUserUsedCode(couponCodeID, userID int) (bool, error) {
	var count int
	err := q.db.QueryRow(
		"SELECT COUNT(*) FROM coupon_code_usage WHERE coupon_code_id = $1 AND user_id = $2",
		couponCodeID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check user usage: %w", err)
	}
	return count > 0, nil
}

// hasSessionUsedCode checks if a session has used a specific coupon code
func (q *CouponQueries) hasSessionUsedCode(couponCodeID int, sessionID string) (bool, error) {
	var count int
	err := q.db.QueryRow(
		"SELECT COUNT(*) FROM coupon_code_usage WHERE coupon_code_id = $1 AND session_id = $2",
		couponCodeID, sessionID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check session usage: %w", err)
	}
	return count > 0, nil
}

// RecordCouponUsage records usage of a coupon code
func (q *CouponQueries) RecordCouponUsage(couponCodeID int, userID *int, sessionID string) error {
	tx, err := q.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Insert usage record
	_, err = tx.Exec(
		"INSERT INTO coupon_code_usage (coupon_code_id, user_id, session_id) VALUES ($1, $2, $3)",
		couponCodeID, userID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to record coupon usage: %w", err)
	}

	// Increment used count
	_, err = tx.Exec(
		"UPDATE coupon_codes SET used_count = used_count + 1, updated_at = CURRENT_TIMESTAMP WHERE id = $1",
		couponCodeID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment usage count: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCouponCodeByCode gets a coupon code by its code string
func (q *CouponQueries) GetCouponCodeByCode(code string) (*models.CouponCode, error) {
	var cc models.CouponCode
	err := q.db.QueryRow(
		`SELECT id, code, description, coupon_type, coupon_value, min_order_amount,
		 usage_type, max_uses, used_count, active, start_date, end_date, created_by, created_at, updated_at
		 FROM coupon_codes WHERE code = $1`,
		code,
	).Scan(
		&cc.ID, &cc.Code, &cc.Description, &cc.CouponType, &cc.CouponValue,
		&cc.MinOrderAmount, &cc.UsageType, &cc.MaxUses, &cc.UsedCount, &cc.Active,
		&cc.StartDate, &cc.EndDate, &cc.CreatedBy, &cc.CreatedAt, &cc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("coupon code not found")
		}
		return nil, fmt.Errorf("failed to get coupon code: %w", err)
	}
	return &cc, nil
}

// BuildDiscountSpec converts a validated coupon into the spec the allocator
// consumes. Percentage coupons become a cart-wide percent discount; fixed
// amount coupons spread the amount across the cart.
func BuildDiscountSpec(cc *models.CouponCode) *pricing.DiscountSpec {
	spec := &pricing.DiscountSpec{
		Code:        cc.Code,
		Name:        cc.Description,
		Scope:       pricing.Scope{Type: pricing.ScopeAllItems},
		MinPurchase: cc.MinOrderAmount,
	}
	if cc.CouponType == models.CouponTypePercentage {
		spec.Type = pricing.CartPercentOff
		spec.Percent = cc.CouponValue
	} else {
		spec.Type = pricing.CartAmountOff
		spec.Amount = int(cc.CouponValue)
	}
	return spec
}

// Admin methods below

// CreateCouponCode creates a new coupon code
func (q *CouponQueries) CreateCouponCode(req *models.CouponCodeRequest, createdBy int) (*models.CouponCodeResponse, error) {
	var cc models.CouponCode
	err := q.db.QueryRow(
		`INSERT INTO coupon_codes (code, description, coupon_type, coupon_value, min_order_amount,
		 usage_type, max_uses, active, start_date, end_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, code, description, coupon_type, coupon_value, min_order_amount,
		 usage_type, max_uses, used_count, active, start_date, end_date, created_by, created_at, updated_at`,
		req.Code, req.Description, req.CouponType, req.CouponValue, req.MinOrderAmount,
		req.UsageType, req.MaxUses, req.Active, req.StartDate, req.EndDate, createdBy,
	).Scan(
		&cc.ID, &cc.Code, &cc.Description, &cc.CouponType, &cc.CouponValue,
		&cc.MinOrderAmount, &cc.UsageType, &cc.MaxUses, &cc.UsedCount, &cc.Active,
		&cc.StartDate, &cc.EndDate, &cc.CreatedBy, &cc.CreatedAt, &cc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coupon code: %w", err)
	}

	return q.buildCouponCodeResponse(&cc), nil
}

// GetCouponCodes gets a paginated list of coupon codes
func (q *CouponQueries) GetCouponCodes(page, limit int, activeFilter *bool) (*models.CouponCodeListResponse, error) {
	offset := (page - 1) * limit

	var conditions []string
	var args []interface{}
	argIndex := 1

	if activeFilter != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", argIndex))
		args = append(args, *activeFilter)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM coupon_codes %s", whereClause)
	var total int
	err := q.db.QueryRow(countQuery, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count coupon codes: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, code, description, coupon_type, coupon_value, min_order_amount,
		       usage_type, max_uses, used_count, active, start_date, end_date, created_by, created_at, updated_at
		FROM coupon_codes %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argIndex, argIndex+1)

	args = append(args, limit, offset)

	rows, err := q.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon codes: %w", err)
	}
	defer rows.Close()

	var couponCodes []models.CouponCodeResponse
	for rows.Next() {
		var cc models.CouponCode
		err := rows.Scan(
			&cc.ID, &cc.Code, &cc.Description, &cc.CouponType, &cc.CouponValue,
			&cc.MinOrderAmount, &cc.UsageType, &cc.MaxUses, &cc.UsedCount, &cc.Active,
			&cc.StartDate, &cc.EndDate, &cc.CreatedBy, &cc.CreatedAt, &cc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon code: %w", err)
		}
		couponCodes = append(couponCodes, *q.buildCouponCodeResponse(&cc))
	}

	return &models.CouponCodeListResponse{
		CouponCodes: couponCodes,
		Total:       total,
		Page:        page,
		Limit:       limit,
	}, nil
}

// GetCouponCodeByID gets a coupon code by ID
func (q *CouponQueries) GetCouponCodeByID(id int) (*models.CouponCodeResponse, error) {
	var cc models.CouponCode
	err := q.db.QueryRow(
		`SELECT id, code, description, coupon_type, coupon_value, min_order_amount,
		 usage_type, max_uses, used_count, active, start_date, end_date, created_by, created_at, updated_at
		 FROM coupon_codes WHERE id = $1`,
		id,
	).Scan(
		&cc.ID, &cc.Code, &cc.Description, &cc.CouponType, &cc.CouponValue,
		&cc.MinOrderAmount, &cc.UsageType, &cc.MaxUses, &cc.UsedCount, &cc.Active,
		&cc.StartDate, &cc.EndDate, &cc.CreatedBy, &cc.CreatedAt, &cc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("coupon code not found")
		}
		return nil, fmt.Errorf("failed to get coupon code: %w", err)
	}

	return q.buildCouponCodeResponse(&cc), nil
}

// UpdateCouponCode updates a coupon code
func (q *CouponQueries) UpdateCouponCode(id int, req *models.CouponCodeRequest) (*models.CouponCodeResponse, error) {
	var cc models.CouponCode
	err := q.db.QueryRow(
		`UPDATE coupon_codes SET
		 code = $1, description = $2, coupon_type = $3, coupon_value = $4, min_order_amount = $5,
		 usage_type = $6, max_uses = $7, active = $8, start_date = $9, end_date = $10, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $11
		 RETURNING id, code, description, coupon_type, coupon_value, min_order_amount,
		 usage_type, max_uses, used_count, active, start_date, end_date, created_by, created_at, updated_at`,
		req.Code, req.Description, req.CouponType, req.CouponValue, req.MinOrderAmount,
		req.UsageType, req.MaxUses, req.Active, req.StartDate, req.EndDate, id,
	).Scan(
		&cc.ID, &cc.Code, &cc.Description, &cc.CouponType, &cc.CouponValue,
		&cc.MinOrderAmount, &cc.UsageType, &cc.MaxUses, &cc.UsedCount, &cc.Active,
		&cc.StartDate, &cc.EndDate, &cc.CreatedBy, &cc.CreatedAt, &cc.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("coupon code not found")
		}
		return nil, fmt.Errorf("failed to update coupon code: %w", err)
	}

	return q.buildCouponCodeResponse(&cc), nil
}

// DeleteCouponCode deletes a coupon code
func (q *CouponQueries) DeleteCouponCode(id int) error {
	result, err := q.db.Exec("DELETE FROM coupon_codes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete coupon code: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("coupon code not found")
	}

	return nil
}

// GetCouponCodeUsage gets usage statistics for a coupon code
func (q *CouponQueries) GetCouponCodeUsage(id int) ([]models.CouponCodeUsage, error) {
	var exists bool
	err := q.db.QueryRow("SELECT EXISTS(SELECT 1 FROM coupon_codes WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check if coupon code exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("coupon code not found")
	}

	rows, err := q.db.Query(
		`SELECT id, coupon_code_id, user_id, session_id, created_at
		 FROM coupon_code_usage WHERE coupon_code_id = $1 ORDER BY created_at DESC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon code usage: %w", err)
	}
	defer rows.Close()

	var usage []models.CouponCodeUsage
	for rows.Next() {
		var u models.CouponCodeUsage
		err := rows.Scan(&u.ID, &u.CouponCodeID, &u.UserID, &u.SessionID, &u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage record: %w", err)
		}
		usage = append(usage, u)
	}

	return usage, nil
}

// buildCouponCodeResponse builds a response with additional calculated fields
func (q *CouponQueries) buildCouponCodeResponse(cc *models.CouponCode) *models.CouponCodeResponse {
	now := time.Now()
	isExpired := cc.EndDate != nil && now.After(*cc.EndDate)
	isUsageExceeded := cc.MaxUses != nil && cc.UsedCount >= *cc.MaxUses

	return &models.CouponCodeResponse{
		ID:              cc.ID,
		Code:            cc.Code,
		Description:     cc.Description,
		CouponType:      cc.CouponType,
		CouponValue:     cc.CouponValue,
		MinOrderAmount:  cc.MinOrderAmount,
		UsageType:       cc.UsageType,
		MaxUses:         cc.MaxUses,
		UsedCount:       cc.UsedCount,
		Active:          cc.Active,
		StartDate:       cc.StartDate,
		EndDate:         cc.EndDate,
		CreatedBy:       cc.CreatedBy,
		CreatedAt:       cc.CreatedAt,
		UpdatedAt:       cc.UpdatedAt,
		IsExpired:       isExpired,
		IsUsageExceeded: isUsageExceeded,
	}
}
