// ================== internal/middleware/auth.go ==================
package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/skycast/internal/pkg/jwt"
	"github.com/xyz-asif/skycast/internal/pkg/response"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextToken  = "token"
)

// Auth requires a valid bearer token and stores the caller identity in the context.
func Auth(cfg *jwt.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required", "AUTH_REQUIRED")
			c.Abort()
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			response.Unauthorized(c, "Invalid authorization format", "INVALID_AUTH_FORMAT")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenString, cfg)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token has expired"
			}
			response.Unauthorized(c, message, "INVALID_TOKEN")
			c.Abort()
			return
		}

		setIdentity(c, tokenString, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller identity when a valid token is present and
// lets anonymous requests through otherwise.
func OptionalAuth(cfg *jwt.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := jwt.ValidateToken(tokenString, cfg); err == nil {
				setIdentity(c, tokenString, claims)
			}
		}
		c.Next()
	}
}

// UserID returns the authenticated caller id, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func setIdentity(c *gin.Context, token string, claims *jwt.Claims) {
	c.Set(ContextUserID, claims.UserID())
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextToken, token)
}

// bearerToken accepts "Bearer <token>" (case-insensitive scheme).
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", false
	}
	return fields[1], true
}
