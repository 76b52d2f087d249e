package jwtmw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	ContextSessionID   = "sessionID"
	ContextUsername    = "username"
	ContextDisplayName = "displayName"
)

// TokenParser verifies a cookie token and returns the session id it carries.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// CookieRequired returns a Gin middleware function that validates the signed
// session cookie and stores the session id in the context.
func CookieRequired(cookieName string, parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get session cookie
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		// 2. Verify signature and expiry
		sessionID, err := parser.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		// 3. Pass control to the next handler
		c.Set(ContextSessionID, sessionID)
		c.Next()
	}
}
