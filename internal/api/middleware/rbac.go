package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/pkg/metrics"
)

// RequireCapability lets the request through only when the authenticated user
// holds capability. It must run after Authenticate; when no user is attached
// it answers 401 rather than trusting the chain order.
func RequireCapability(capability domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return unauthorized(c, "user_missing")
			}
			if !user.Has(capability) {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return c.JSON(http.StatusForbidden, errorResponse{Error: "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireAdmin is RequireCapability(domain.CapabilityAdmin).
func RequireAdmin() echo.MiddlewareFunc {
	return RequireCapability(domain.CapabilityAdmin)
}
