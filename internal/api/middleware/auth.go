package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/pkg/metrics"
)

// TokenVerifier resolves a raw identity token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads the user a token refers to.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate verifies the identity token carried raw in the Authorization
// header, loads the referenced user and attaches it to the context. The user
// is re-read on every request; a token whose user is gone is rejected.
func Authenticate(tokens TokenVerifier, users UserFinder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return unauthorized(c, "token_invalid")
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				return unauthorized(c, "token_invalid")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return unauthorized(c, "user_missing")
				}
				log.Error().Err(err).Str("path", c.Path()).Msg("authentication lookup failed")
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// tokenFromHeader returns the raw token. A "Bearer " prefix is tolerated.
func tokenFromHeader(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		h = strings.TrimSpace(h[7:])
	}
	return h
}

func unauthorized(c echo.Context, reason string) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
