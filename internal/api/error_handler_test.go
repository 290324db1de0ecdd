package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		code  int
		known bool
	}{
		{"concurrent status change", fmt.Errorf("update status: %w", domain.ErrStatusConflict), http.StatusConflict, true},
		{"invalid transition", fmt.Errorf("update status: %w", domain.ErrInvalidTransition), http.StatusConflict, true},
		{"missing order", domain.ErrOrderNotFound, http.StatusNotFound, true},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, true},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, true},
		{"storage failure", errors.New("connection reset"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, known := classifyError(tt.err)
			if code != tt.code || known != tt.known {
				t.Errorf("classifyError(%v) = %d/%v, want %d/%v", tt.err, code, known, tt.code, tt.known)
			}
		})
	}
}
