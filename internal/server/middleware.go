package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/readypath/backend/internal/identity"
	"github.com/readypath/backend/internal/logger"
)

const subjectKey = "auth_subject"

// AuthSubject extracts the authenticated subject from a bearer token, if one
// was sent. Requests without a token proceed as guests; handlers that need an
// authenticated user check for an empty subject themselves.
func AuthSubject() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if sub := identity.SubjectFromToken(authHeader[7:]); sub != "" {
				c.Set(subjectKey, sub)
			}
		}
		c.Next()
	}
}

func subjectOf(c *gin.Context) string {
	return c.GetString(subjectKey)
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
