package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDKey is the header name and echo context key carrying the
// request ID. The request-ID middleware and this package share it.
const RequestIDKey = "X-Request-ID"

// FromContext returns the request-scoped logger attached by Middleware.
// For requests that never passed through it, the global logger is
// returned tagged with whatever request ID the request carries.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}

	requestID, ok := c.Get(RequestIDKey).(string)
	if !ok {
		if requestID = c.Request().Header.Get(RequestIDKey); requestID == "" {
			requestID = "unknown"
		}
	}

	return GetLogger().With(zap.String("request_id", requestID))
}
