package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// RequestIDHeader is the HTTP header carrying the request correlation ID.
	RequestIDHeader = echo.HeaderXRequestID

	// RequestIDKey is the internal key used to store the ID in Echo context.
	RequestIDKey = "request_id"
)

// RequestID makes sure each request has a correlation ID.
//
// An incoming X-Request-ID is reused, otherwise a UUIDv4 is generated.
// The ID is echoed on the response and stored under RequestIDKey.
func RequestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:    newRequestID,
		TargetHeader: RequestIDHeader,
		RequestIDHandler: func(c echo.Context, requestID string) {
			c.Set(RequestIDKey, requestID)
		},
	})
}

func newRequestID() string {
	return uuid.New().String()
}

// GetRequestID retrieves the request ID from Echo context.
//
// Returns empty string if not set.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
