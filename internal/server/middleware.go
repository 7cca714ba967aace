package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	auth "auction-board/internal/authService"
	"auction-board/services/auction/handler"
	"auction-board/utils"

	"github.com/gin-gonic/gin"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// bearerToken extracts the token from the Authorization header, or ""
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// AuthRequired rejects requests without a valid bearer token and stores
// the authenticated user ID on the context
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.JSONError(c, http.StatusUnauthorized, errors.New("missing bearer token"), "authentication required")
			c.Abort()
			return
		}

		userID, err := auth.ParseToken(token, jwtSecret)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, err, "invalid or expired token")
			utils.Warn("AuthRequired: token rejected", map[string]any{"error": err.Error()})
			c.Abort()
			return
		}

		handler.SetCurrentUserID(c, userID)
		c.Next()
	}
}

// AuthOptional stores the user ID when a valid bearer token is present
// and lets anonymous requests through untouched
func AuthOptional(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if userID, err := auth.ParseToken(token, jwtSecret); err == nil {
				handler.SetCurrentUserID(c, userID)
			}
		}
		c.Next()
	}
}
