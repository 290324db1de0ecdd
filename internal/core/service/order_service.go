package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfront/storefront-api/internal/core/domain"
	"github.com/shopfront/storefront-api/internal/core/ports"
	"github.com/shopfront/storefront-api/internal/pkg/metrics"
)

type OrderService struct {
	repo    ports.OrderRepository
	catalog ports.ProductCatalog
	auditor ports.StatusAuditor
	policy  domain.TransitionPolicy
	now     func() time.Time
	logger  zerolog.Logger
}

// OrderOption customises an OrderService.
type OrderOption func(*OrderService)

// WithTransitionPolicy replaces the default AnyTransition policy.
func WithTransitionPolicy(p domain.TransitionPolicy) OrderOption {
	return func(s *OrderService) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithStatusAuditor enqueues every applied status change on a.
func WithStatusAuditor(a ports.StatusAuditor) OrderOption {
	return func(s *OrderService) { s.auditor = a }
}

// maxStatusAttempts bounds the re-read loop when concurrent updates race.
const maxStatusAttempts = 5

func NewOrderService(repo ports.OrderRepository, catalog ports.ProductCatalog, logger zerolog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{
		repo:    repo,
		catalog: catalog,
		policy:  domain.AnyTransition,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout places an order for the buyer, snapshotting each product's name
// and price so later catalog edits leave the order untouched.
func (s *OrderService) Checkout(ctx context.Context, input ports.CheckoutInput) (*domain.Order, error) {
	if input.BuyerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrValidation)
	}

	ids := make([]string, 0, len(input.Items))
	for i, item := range input.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item[%d] needs a product id and a positive quantity", domain.ErrValidation, i)
		}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	snapshots := make([]domain.ProductSnapshot, 0, len(input.Items))
	for _, item := range input.Items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("checkout: %w: %s", domain.ErrProductNotFound, item.ProductID)
		}
		snapshots = append(snapshots, domain.ProductSnapshot{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  item.Quantity,
		})
	}

	now := s.now()
	order := &domain.Order{
		Status:   domain.StatusNotProcess,
		Buyer:    domain.BuyerRef{ID: input.BuyerID},
		Products: snapshots,
		Payment:  input.Payment,
		CreateAt: now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusNotProcess, At: now, By: input.BuyerID},
		},
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("buyer_id", input.BuyerID).Msg("failed to create order")
		return nil, err
	}

	outcome := "failure"
	if input.Payment.Success {
		outcome = "success"
	}
	metrics.OrdersCreatedTotal.WithLabelValues(outcome).Inc()

	s.logger.Info().
		Str("order_id", created.ID).
		Str("buyer_id", input.BuyerID).
		Str("total", created.Total().StringFixed(2)).
		Bool("paid", input.Payment.Success).
		Msg("order placed")

	return created, nil
}

// Get returns a single order. Buyers only see their own orders; anything else
// is reported as not found.
func (s *OrderService) Get(ctx context.Context, input ports.GetOrderInput) (*domain.Order, error) {
	if input.Viewer == nil {
		return nil, domain.ErrUnauthorized
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !input.Viewer.IsAdmin() && !order.OwnedBy(input.Viewer.ID) {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx, ports.ListOrdersFilter{})
}

// ListForBuyer returns the buyer's own orders, newest first.
func (s *OrderService) ListForBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	if buyerID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.List(ctx, ports.ListOrdersFilter{BuyerID: buyerID})
}

// UpdateStatus applies an admin's status change. The status is validated
// before the store is touched. The write only lands if the status the policy
// approved is still stored; otherwise the order is re-read and the policy
// re-applied, so concurrent updates stay last-write-wins under AnyTransition
// while TerminalLock still holds.
func (s *OrderService) UpdateStatus(ctx context.Context, input ports.UpdateOrderStatusInput) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(input.Status)
	if err != nil {
		metrics.OrderStatusErrorsTotal.WithLabelValues("invalid_status").Inc()
		return nil, err
	}

	var (
		current *domain.Order
		updated *domain.Order
		at      time.Time
	)
	for attempt := 1; ; attempt++ {
		current, err = s.repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, domain.ErrOrderNotFound) {
				metrics.OrderStatusErrorsTotal.WithLabelValues("not_found").Inc()
			}
			return nil, fmt.Errorf("update status: %w", err)
		}

		if err := s.policy(current.Status, next); err != nil {
			metrics.OrderStatusErrorsTotal.WithLabelValues("invalid_transition").Inc()
			return nil, fmt.Errorf("update status: %w", err)
		}

		at = s.now()
		updated, err = s.repo.UpdateStatus(ctx, input.OrderID, current.Status, next, at, input.ActorID)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrStatusConflict) && attempt < maxStatusAttempts {
			s.logger.Debug().Str("order_id", input.OrderID).Int("attempt", attempt).Msg("order status changed underneath, retrying")
			continue
		}

		reason := "update_failed"
		if errors.Is(err, domain.ErrStatusConflict) {
			reason = "conflict"
		}
		metrics.OrderStatusErrorsTotal.WithLabelValues(reason).Inc()
		s.logger.Error().Err(err).Str("order_id", input.OrderID).Msg("failed to update order status")
		return nil, fmt.Errorf("update status: %w", err)
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(string(next)).Inc()
	if s.auditor != nil {
		s.auditor.Enqueue(ports.StatusChangeEvent{
			OrderID: updated.ID,
			From:    current.Status,
			To:      next,
			ActorID: input.ActorID,
			At:      at,
		})
	}

	s.logger.Info().
		Str("order_id", updated.ID).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Str("actor_id", input.ActorID).
		Msg("order status updated")

	return updated, nil
}
