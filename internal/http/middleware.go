package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/julianstoll1/access-dashboard/internal/audit/domain"
)

// actorHeader carries the acting operator id supplied by the caller.
// Identity is established upstream; the value is only used for audit attribution.
const actorHeader = "X-User-ID"

// CustomLoggerMiddleware returns a Gin middleware that logs requests with slog.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}

// ActorMiddleware propagates the acting operator id from the X-User-ID header
// into the request context so mutations can attribute audit entries.
// Absent or malformed headers leave the context untouched; entries are then
// recorded without an operator.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader(actorHeader); header != "" {
			if userID, err := uuid.Parse(header); err == nil {
				ctx := auditDomain.WithUserID(c.Request.Context(), userID)
				c.Request = c.Request.WithContext(ctx)
			}
		}

		c.Next()
	}
}
