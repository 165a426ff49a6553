package utils

import (
	"CloudStore/internal/session"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session_token"

// sessionToken extracts the token from the cookie, falling back to a
// Bearer header for non-browser clients.
func sessionToken(c *gin.Context) string {
	if token, err := c.Cookie(SessionCookie); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}
	return tokenParts[1]
}

// AuthMiddleware resolves the session and sets the owner identity, or
// rejects the request with 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := session.Default.Resolve(c.Request.Context(), sessionToken(c))
		if errors.Is(err, session.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		if err != nil {
			// A session store outage is not the caller's fault.
			log.Printf("resolve session failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		c.Set("user_id", identity.UserID)
		c.Set("username", identity.Username)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the owner identity when a live session
// exists but never rejects the request.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := session.Default.Resolve(c.Request.Context(), sessionToken(c)); err == nil {
			c.Set("user_id", identity.UserID)
			c.Set("username", identity.Username)
		}
		c.Next()
	}
}
