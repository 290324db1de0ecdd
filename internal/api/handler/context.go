package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront-api/internal/api/middleware"
	"github.com/shopfront/storefront-api/internal/core/domain"
)

// currentUser returns the user attached by the Authenticate middleware. A
// missing user means the route was mounted without the gate; fail closed.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}
