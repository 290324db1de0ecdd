package ports

import (
	"context"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when the user no longer exists.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
