package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

func TestValidator_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&checkoutRequest{Products: []checkoutItemRequest{{Quantity: 1}}})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "products[0]._id is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidator_EmptyCart(t *testing.T) {
	err := NewValidator().Validate(&checkoutRequest{Products: []checkoutItemRequest{}})
	if err == nil || !strings.Contains(err.Error(), "products must contain at least 1 item(s)") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_RegisterRequest(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&registerRequest{Name: "Ann", Email: "ann@example.com", Password: "pw"}); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	err := v.Validate(&registerRequest{Name: "Ann", Email: "nope", Password: "pw"})
	if err == nil || !strings.Contains(err.Error(), "email must be a valid email") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_PlugsIntoEcho(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())
	if err := c.Validate(&loginRequest{Email: "ann@example.com"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation through echo, got %v", err)
	}
}
