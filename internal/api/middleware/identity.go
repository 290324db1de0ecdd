package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

const userContextKey = "auth.user"

type errorResponse struct {
	Error string `json:"error"`
}

// SetUser attaches the authenticated user to the request-scoped context.
func SetUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

// CurrentUser returns the user attached by Authenticate, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userContextKey).(*domain.User)
	return u, ok && u != nil
}
