package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders middleware adds security headers for production
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		isHTTPS := isSecureRequest(c)

		if isHTTPS {
			// HSTS only for HTTPS
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		// Prevent MIME type sniffing
		c.Header("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		c.Header("X-Frame-Options", "DENY")

		// Referrer Policy
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Header("Content-Security-Policy", buildCSP(isHTTPS))

		// Remove server information
		c.Header("Server", "")

		c.Next()
	}
}

// isSecureRequest checks if the request is HTTPS (considering proxy headers)
func isSecureRequest(c *gin.Context) bool {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if c.Request.TLS != nil {
		return true
	}
	return false
}

// buildCSP builds Content Security Policy based on environment
func buildCSP(isHTTPS bool) string {
	protocol := "http:"
	if isHTTPS {
		protocol = "https:"
	}

	return strings.Join([]string{
		"default-src 'self'",
		"img-src 'self' data: " + protocol,
		"connect-src 'self' " + protocol,
		"object-src 'none'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
	}, "; ")
}

// HealthCheck middleware provides a simple health check endpoint
func HealthCheck(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == endpoint {
			c.JSON(http.StatusOK, gin.H{
				"status":    "healthy",
				"timestamp": time.Now().Unix(),
				"service":   "salchimonster-api",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
