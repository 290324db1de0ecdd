package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCodec              = errors.New("credential codec failure")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidStatus     = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStatusConflict means the order's status changed between read and write.
	ErrStatusConflict = errors.New("order status changed concurrently")
)
