package models

import (
	"time"
)

// Role constants
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
)

// User represents a user account. Only admins interact with the backend
// directly; storefront shoppers are anonymous cart sessions.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
