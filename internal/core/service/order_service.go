package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/order-service/internal/core/domain"
	"github.com/99minutos/order-service/internal/core/ports"
)

// OrderService implements checkout and the admin-driven order lifecycle.
type OrderService struct {
	orders  ports.OrderRepository
	catalog ports.Catalog
	guard   ports.AccessGuard
	events  ports.EventQueue
	log     zerolog.Logger
	now     func() time.Time
}

func NewOrderService(
	orders ports.OrderRepository,
	catalog ports.Catalog,
	guard ports.AccessGuard,
	events ports.EventQueue,
	log zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		guard:   guard,
		events:  events,
		log:     log,
		now:     time.Now,
	}
}

// CreateOrder validates the requested items against the catalog and persists
// the order with all of its items atomically. Stock is neither checked nor
// decremented, and submitted prices are stored as given. Creation is not
// idempotent: resubmitting yields a second order.
func (s *OrderService) CreateOrder(ctx context.Context, p domain.Principal, in ports.CreateOrderInput) (*domain.Order, error) {
	// 1. Reject empty orders before touching any store.
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	if err := validateOrderInput(in); err != nil {
		return nil, err
	}

	// 2. One batch lookup for the distinct product ids.
	ids := distinctProductIDs(in.Items)
	found, err := s.catalog.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("create order: lookup products: %w", err)
	}

	// 3. Existence check only.
	if len(found) < len(ids) {
		return nil, domain.ErrUnknownProduct
	}

	// 4. Order and items in one transaction.
	order := &domain.Order{
		UserID:     p.UserID,
		TotalPrice: in.TotalPrice,
		Status:     domain.OrderPending,
		Items:      make([]domain.OrderItem, 0, len(in.Items)),
	}
	for _, item := range in.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.emit(ctx, domain.EventOrderCreated, order, "", p.UserID)

	s.log.Info().
		Int64("order_id", order.ID).
		Int64("user_id", order.UserID).
		Int("items", len(order.Items)).
		Str("total", order.TotalPrice.String()).
		Msg("order created")

	return order, nil
}

// GetOrder returns the order if the principal owns it or is an admin.
func (s *OrderService) GetOrder(ctx context.Context, p domain.Principal, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns every order. Route-level admin checks apply.
func (s *OrderService) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.List(ctx)
}

// ListUserOrders returns the principal's own orders.
func (s *OrderService) ListUserOrders(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, p.UserID)
}

// UpdateStatus applies an admin-driven transition. Only transitions in the
// status table are accepted, and the write only succeeds if the order is
// still in the status the transition was validated against.
func (s *OrderService) UpdateStatus(ctx context.Context, p domain.Principal, id int64, status string) (*domain.Order, error) {
	next, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	current, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: order is %s and can no longer change status", domain.ErrInvalidTransition, current.Status)
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, current.Status, next)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.emit(ctx, domain.EventOrderStatusChanged, updated, current.Status, p.UserID)

	s.log.Info().
		Int64("order_id", id).
		Str("from", string(current.Status)).
		Str("to", string(next)).
		Int64("actor_id", p.UserID).
		Msg("order status updated")

	return updated, nil
}

// DeleteOrder removes the order and its items if the principal owns it or is
// an admin.
func (s *OrderService) DeleteOrder(ctx context.Context, p domain.Principal, id int64) error {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.Authorize(ctx, p, order); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.emit(ctx, domain.EventOrderDeleted, order, "", p.UserID)
	s.log.Info().Int64("order_id", id).Int64("actor_id", p.UserID).Msg("order deleted")
	return nil
}

// emit hands the event to the relay queue. Failures are logged only: the
// order change is already committed.
func (s *OrderService) emit(ctx context.Context, typ domain.OrderEventType, o *domain.Order, prev domain.OrderStatus, actorID int64) {
	if s.events == nil {
		return
	}

	event := domain.OrderEvent{
		ID:             uuid.NewString(),
		Type:           typ,
		OrderID:        o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		PreviousStatus: prev,
		TotalPrice:     o.TotalPrice,
		ItemCount:      len(o.Items),
		ActorID:        actorID,
		OccurredAt:     s.now().UTC(),
	}
	if err := s.events.Enqueue(ctx, event); err != nil {
		s.log.Warn().Err(err).Int64("order_id", o.ID).Str("type", string(typ)).Msg("failed to enqueue order event")
	}
}

func validateOrderInput(in ports.CreateOrderInput) error {
	if err := domain.CheckAmount("totalPrice", in.TotalPrice); err != nil {
		return err
	}
	for i, item := range in.Items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: products[%d].id is required", domain.ErrValidation, i)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: products[%d].quantity must be at least 1", domain.ErrValidation, i)
		}
		if err := domain.CheckAmount(fmt.Sprintf("products[%d].price", i), item.Price); err != nil {
			return err
		}
	}
	return nil
}

func distinctProductIDs(items []ports.OrderItemInput) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
