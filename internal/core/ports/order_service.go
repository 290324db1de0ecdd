package ports

import (
	"context"
	"time"

	"github.com/shopfront/storefront-api/internal/core/domain"
)

// UpdateOrderStatusInput carries an admin's status change request.
type UpdateOrderStatusInput struct {
	OrderID string
	Status  string
	ActorID string
}

// GetOrderInput carries the order id and the authenticated viewer, used to
// filter by ownership for buyers.
type GetOrderInput struct {
	OrderID string
	Viewer  *domain.User
}

// CheckoutItem is one line of a cart at checkout.
type CheckoutItem struct {
	ProductID string
	Quantity  int
}

// CheckoutInput carries everything needed to place an order. The payment
// outcome comes from the payment collaborator and is stored as-is.
type CheckoutInput struct {
	BuyerID string
	Items   []CheckoutItem
	Payment domain.Payment
}

// StatusChangeEvent is an audit record of a single status change.
type StatusChangeEvent struct {
	OrderID string
	From    domain.OrderStatus
	To      domain.OrderStatus
	ActorID string
	At      time.Time
}

// StatusAuditor accepts status change events for asynchronous persistence.
type StatusAuditor interface {
	Enqueue(event StatusChangeEvent)
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error)
	Get(ctx context.Context, input GetOrderInput) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListForBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, input UpdateOrderStatusInput) (*domain.Order, error)
}
