package ports

import (
	"context"
	"time"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

// ListOrdersFilter scopes an order listing. An empty BuyerID means all orders.
type ListOrdersFilter struct {
	BuyerID string
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	// List returns matching orders, newest createAt first.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	// UpdateStatus moves the order from status from to status to, appends a
	// history entry and returns the updated order. It returns
	// domain.ErrStatusConflict when the stored status is no longer from. It
	// never touches buyer or products.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time, by string) (*domain.Order, error)
}

// ProductCatalog resolves catalog products for checkout snapshots.
type ProductCatalog interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
}

// StatusEventRepository persists the status-change audit trail.
type StatusEventRepository interface {
	InsertStatusEvent(ctx context.Context, event StatusChangeEvent) error
}
