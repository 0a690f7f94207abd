package trade

import (
	"context"
	"errors"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/b2bprocure/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService handles placed orders for buyers and shops
type OrderService struct {
	uow       trade.UnitOfWork
	queries   trade.QueryRepository
	contacts  identity.ContactRepository
	shops     catalog.ShopRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	uow trade.UnitOfWork,
	queries trade.QueryRepository,
	contacts identity.ContactRepository,
	shops catalog.ShopRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		uow:       uow,
		queries:   queries,
		contacts:  contacts,
		shops:     shops,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit places the caller's basket. The status change, contact and price snapshot
// are written in one transaction; OrderPlaced is published only after it commits.
func (s *OrderService) Submit(ctx context.Context, p identity.Principal, req SubmitOrderRequest) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "OrderService", "Submit",
		attribute.String("order.id", req.ID.String()))
	defer telemetry.End(span, &err)

	if err := p.RequireAuthenticated(); err != nil {
		return err
	}

	if _, err := s.contacts.FindByIDForUser(ctx, p.UserID, req.Contact); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewValidationError("Contact does not exist")
		}
		return err
	}

	var placed *trade.Order
	err = s.uow.Within(ctx, func(repos trade.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if !order.IsOwnedBy(p.UserID) {
			return shared.NewDomainError(shared.CodeForbidden, "Order belongs to another user")
		}

		n, err := repos.Items.CountByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		if n == 0 && order.IsBasket() {
			return shared.NewValidationError("Basket is empty")
		}

		if err := order.Submit(req.Contact); err != nil {
			return err
		}
		rows, err := repos.Orders.SubmitBasket(ctx, order)
		if err != nil {
			return err
		}
		if rows == 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "Order has already been submitted")
		}
		placed = order
		return nil
	})
	if err != nil {
		return err
	}

	logger.Or(ctx, s.logger).Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("user_id", p.UserID.String()),
	)
	s.publish(ctx, placed)
	return nil
}

// Cancel cancels one of the caller's placed orders
func (s *OrderService) Cancel(ctx context.Context, p identity.Principal, req CancelOrderRequest) error {
	if err := p.RequireAuthenticated(); err != nil {
		return err
	}

	order, err := s.transition(ctx, req.ID, func(repos trade.Repositories, order *trade.Order) error {
		if !order.IsOwnedBy(p.UserID) {
			return shared.NewDomainError(shared.CodeForbidden, "Order belongs to another user")
		}
		return order.Cancel()
	})
	if err != nil {
		return err
	}
	s.publish(ctx, order)
	return nil
}

// ShopTransition moves an order containing the caller's items to status.
// Orders without the shop's items are reported as not found.
func (s *OrderService) ShopTransition(ctx context.Context, p identity.Principal, req StatusUpdateRequest) error {
	if err := p.RequireShop(); err != nil {
		return err
	}
	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if err != nil {
		return err
	}

	target := trade.OrderStatus(req.Status)
	if !target.IsValid() {
		return shared.NewValidationError("Unknown order status: " + req.Status)
	}

	order, err := s.transition(ctx, req.ID, func(repos trade.Repositories, order *trade.Order) error {
		if order.IsBasket() {
			return shared.ErrNotFound
		}
		ok, err := repos.Items.HasShopItems(ctx, order.ID, shop.ID)
		if err != nil {
			return err
		}
		if !ok {
			return shared.ErrNotFound
		}
		return order.TransitionTo(target)
	})
	if err != nil {
		return err
	}

	logger.Or(ctx, s.logger).Info("order status changed by shop",
		zap.String("order_id", order.ID.String()),
		zap.String("shop_id", shop.ID.String()),
		zap.String("status", order.Status.String()),
	)
	s.publish(ctx, order)
	return nil
}

// transition loads an order, applies change and persists the new status guarded on the old one
func (s *OrderService) transition(ctx context.Context, orderID uuid.UUID, change func(trade.Repositories, *trade.Order) error) (*trade.Order, error) {
	var changed *trade.Order
	err := s.uow.Within(ctx, func(repos trade.Repositories) error {
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		from := order.Status
		if err := change(repos, order); err != nil {
			return err
		}
		rows, err := repos.Orders.UpdateStatus(ctx, order, from)
		if err != nil {
			return err
		}
		if rows == 0 {
			return shared.ErrConcurrencyConflict
		}
		changed = order
		return nil
	})
	return changed, err
}

// List returns the caller's placed orders, newest first
func (s *OrderService) List(ctx context.Context, p identity.Principal, filter OrderListFilter) (*OrderListResponse, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return nil, err
	}
	f := toFilter(filter)
	orders, total, err := s.queries.ListByUser(ctx, p.UserID, f)
	if err != nil {
		return nil, err
	}
	return newOrderList(orders, total, f), nil
}

// ShopList returns placed orders holding the caller's shop items, priced over those items only
func (s *OrderService) ShopList(ctx context.Context, p identity.Principal, filter OrderListFilter) (*OrderListResponse, error) {
	if err := p.RequireShop(); err != nil {
		return nil, err
	}
	f := toFilter(filter)
	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return newOrderList(nil, 0, f), nil
	}
	if err != nil {
		return nil, err
	}
	orders, total, err := s.queries.ListByShop(ctx, shop.ID, f)
	if err != nil {
		return nil, err
	}
	return newOrderList(orders, total, f), nil
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	events := order.PullEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.Or(ctx, s.logger).Error("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}

func toFilter(f OrderListFilter) shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
	}.Normalize()
}

func newOrderList(orders []trade.OrderSummary, total int64, f shared.Filter) *OrderListResponse {
	if orders == nil {
		orders = []trade.OrderSummary{}
	}
	return &OrderListResponse{
		Items:    orders,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
}
