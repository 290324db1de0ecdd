package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order. The string values
// are stored verbatim and consumed by the storefront UIs.
type OrderStatus string

const (
	StatusNotProcess OrderStatus = "Not Process"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "deliverd"
	StatusCancelled  OrderStatus = "cancel"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusNotProcess,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus converts a raw value into an OrderStatus. Matching is exact.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case StatusNotProcess, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Valid reports whether s is one of the fixed statuses.
func (s OrderStatus) Valid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// Terminal reports whether s ends the lifecycle.
func (s OrderStatus) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// TransitionPolicy decides whether an order may move from one status to another.
// It returns nil to allow the change.
type TransitionPolicy func(from, to OrderStatus) error

// AnyTransition allows every change between valid statuses, including leaving
// a terminal status.
func AnyTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	return nil
}

// TerminalLock behaves like AnyTransition but refuses to leave deliverd or cancel.
func TerminalLock(from, to OrderStatus) error {
	if err := AnyTransition(from, to); err != nil {
		return err
	}
	if from.Terminal() && from != to {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, from, to)
	}
	return nil
}

// BuyerRef points at the user who placed an order. Name is filled on reads.
type BuyerRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// ProductSnapshot captures a product as it was when the order was placed.
type ProductSnapshot struct {
	ProductID string          `json:"_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns price times quantity.
func (p ProductSnapshot) Subtotal() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// Payment is the opaque outcome reported by the payment collaborator.
type Payment struct {
	Success bool           `json:"success"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusHistoryEntry records a single status change on an order.
type StatusHistoryEntry struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
	By     string      `json:"by,omitempty"`
}

// Order is a purchase. Buyer and Products never change after creation; Status
// changes only through the admin-gated update path.
type Order struct {
	ID            string               `json:"_id"`
	Status        OrderStatus          `json:"status"`
	Buyer         BuyerRef             `json:"buyer"`
	Products      []ProductSnapshot    `json:"products"`
	Payment       Payment              `json:"payment"`
	CreateAt      time.Time            `json:"createAt"`
	StatusHistory []StatusHistoryEntry `json:"statusHistory,omitempty"`
}

// Total sums every product subtotal.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.Subtotal())
	}
	return total
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID string) bool {
	return userID != "" && o.Buyer.ID == userID
}

// Product is the catalog entry an order snapshots. Catalog management lives
// outside this service.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
}
