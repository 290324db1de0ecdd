package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	code, msg, known := classifyError(err)
	if !known {
		// Unexpected error (storage, codec, ...): log the real cause, return a generic message.
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("unhandled error")
	}
	return code, msg
}

// statusCodeResolver reports the code the error handler will answer with, so
// request metrics label failed requests with their real status.
func statusCodeResolver(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	code, _, _ := classifyError(err)
	return code
}

func classifyError(err error) (int, string, bool) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", true
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order not found", true
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found", true
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrStatusConflict):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts, try again later", true
	}
	return http.StatusInternalServerError, "internal server error", false
}
