package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// HeaderUserID carries the authenticated user's id, set by the fronting
	// gateway after it has validated the session. This service does not
	// validate credentials itself.
	HeaderUserID = "X-User-ID"

	userIDContextKey = "user_id"
)

// Identity extracts the caller's user id from the request headers into the
// echo context. A missing or malformed header leaves the request anonymous;
// endpoints that need an identity decide for themselves.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Request().Header.Get(HeaderUserID); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					c.Set(userIDContextKey, id)
				}
			}
			return next(c)
		}
	}
}

// GetUserID returns the caller's user id, or nil for anonymous requests
func GetUserID(c echo.Context) *uuid.UUID {
	if id, ok := c.Get(userIDContextKey).(uuid.UUID); ok {
		return &id
	}
	return nil
}

// SetUserID stores a user id on the context (used by tests)
func SetUserID(c echo.Context, id uuid.UUID) {
	c.Set(userIDContextKey, id)
}
