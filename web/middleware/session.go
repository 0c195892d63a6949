package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionCookieName = "faq_bot_session"
const CookieMaxAge = 30 * 24 * 60 * 60 // 30 days

// SessionMiddleware identifies the conversation: each browser gets a stable
// UUID cookie which keys the clarification session and the rate limiter.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookieName)
		var sessionID uuid.UUID

		if err == http.ErrNoCookie {
			sessionID = uuid.New()
			c.SetCookie(SessionCookieName, sessionID.String(), CookieMaxAge, "/", "", false, true)
		} else if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse session cookie"})
			return
		} else {
			sessionID, err = uuid.Parse(cookie)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
				return
			}
		}

		c.Set("sessionID", sessionID)
		c.Next()
	}
}

// AdminAuthMiddleware gates administrative routes behind a shared token.
// With no token configured the admin surface is disabled entirely.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin interface disabled"})
			return
		}
		if c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
