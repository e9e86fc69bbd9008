package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/auth"
)

const (
	ctxUserID = "userID"
	ctxEmail  = "email"
)

// TokenValidator is satisfied by *auth.Tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// AuthMiddleware checks for a valid session token. The token is read from
// the session cookie first, then from an "Authorization: Bearer" header.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Find the token
		tokenString := sessionToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			return
		}

		// 2. Validate it
		claims, err := tokens.Validate(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		// 3. Store the identity for the handlers
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// Email returns the authenticated user's email set by AuthMiddleware.
func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

func sessionToken(c *gin.Context) string {
	if ck, err := c.Cookie(auth.CookieName); err == nil && ck != "" {
		return ck
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
