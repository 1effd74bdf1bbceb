package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/fictionhub-backend/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// query parameters that must never reach the log output
var redactedParams = []string{"token", "access_token"}

// LoggingMiddleware tags every request with an id and a scoped logger, then
// writes one summary line when the handler chain returns.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		reqLog := logger.WithContext(logger.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Set(requestIDKey, requestID)
		c.Set(loggerKey, reqLog)

		reqLog.Debug("Incoming request", logger.Fields{
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
			"query":      redactQuery(c.Request.URL.Query()),
		})

		c.Next()

		status := c.Writer.Status()
		summary := logger.Fields{
			"status_code": status,
			"latency_ms":  time.Since(started).Milliseconds(),
			"body_size":   c.Writer.Size(),
		}
		if route := c.FullPath(); route != "" {
			summary["route"] = route
		}
		if userID, ok := GetUserID(c); ok {
			summary["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			summary["errors"] = c.Errors.String()
		}

		switch levelFor(status) {
		case "error":
			reqLog.Error("Request completed", nil, summary)
		case "warn":
			reqLog.Warn("Request completed", summary)
		default:
			reqLog.Info("Request completed", summary)
		}
	}
}

func levelFor(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "warn"
	default:
		return "info"
	}
}

func redactQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	for _, key := range redactedParams {
		if values.Has(key) {
			values.Set(key, "[REDACTED]")
		}
	}
	return values.Encode()
}

// GetLoggerFromContext returns the request-scoped logger, or the global one
// outside a request.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
