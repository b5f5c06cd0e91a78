package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskpad/internal/auth"
)

const callerIDKey = "caller_id"

// RequireAuth rejects requests that do not carry a verifiable bearer token
// and stores the caller's identifier in the request context.
func RequireAuth(tokens *auth.Manager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		subject, err := tokens.Verify(parts[1])
		if err != nil {
			log.WithError(err).Warn("rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(callerIDKey, subject)
		c.Next()
	}
}

// CallerID returns the verified caller identifier set by RequireAuth.
func CallerID(c *gin.Context) (string, bool) {
	id, exists := c.Get(callerIDKey)
	if !exists {
		return "", false
	}
	return id.(string), true
}

// RequestLogger logs one line per request with method, path, status and latency.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
