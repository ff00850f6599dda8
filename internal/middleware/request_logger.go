package middleware

import (
	"time"

	"github.com/damoang/angple-content/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestLoggerKey = "request_logger"

// RequestLogger logs every request and exposes a request-scoped logger
// carrying the request id through Logger(c).
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}
		reqLog := logger.WithRequestID(requestID)
		c.Set("request_id", requestID)
		c.Set(requestLoggerKey, &reqLog)
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		event := reqLog.Info()
		switch {
		case status >= 500:
			event = reqLog.Error()
		case status >= 400:
			event = reqLog.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_id", GetUserID(c)).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}

// Logger returns the request-scoped logger, or the global one outside
// RequestLogger.
func Logger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(*zerolog.Logger); ok {
			return l
		}
	}
	return logger.GetLogger()
}
