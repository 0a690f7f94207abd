package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BasketService manages the caller's temporary order
type BasketService struct {
	uow     trade.UnitOfWork
	orders  trade.OrderRepository
	queries trade.QueryRepository
	logger  *zap.Logger
}

// NewBasketService creates a new BasketService
func NewBasketService(uow trade.UnitOfWork, orders trade.OrderRepository, queries trade.QueryRepository, logger *zap.Logger) *BasketService {
	return &BasketService{
		uow:     uow,
		orders:  orders,
		queries: queries,
		logger:  logger,
	}
}

// Get returns the caller's basket priced at current listing prices.
// A caller without a basket gets an empty one; nothing is created on read.
func (s *BasketService) Get(ctx context.Context, p identity.Principal) (*trade.OrderSummary, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return nil, err
	}

	basket, err := s.orders.FindBasket(ctx, p.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		summary := trade.NewOrderSummary(&trade.Order{UserID: p.UserID, Status: trade.OrderStatusTemporary}, nil)
		return &summary, nil
	}
	if err != nil {
		return nil, err
	}
	return s.queries.Summary(ctx, basket.ID)
}

// Add puts a batch of listings into the caller's basket. The batch is atomic:
// any invalid entry or store conflict leaves the basket unchanged.
func (s *BasketService) Add(ctx context.Context, p identity.Principal, req AddItemsRequest) (int, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return 0, err
	}
	if len(req.Items) == 0 {
		return 0, shared.NewValidationError("Items are required")
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, it := range req.Items {
		if err := trade.ValidateQuantity(it.Quantity); err != nil {
			return 0, err
		}
		if seen[it.ProductInfoID] {
			return 0, shared.NewValidationError(fmt.Sprintf("Product info %s is listed more than once", it.ProductInfoID))
		}
		seen[it.ProductInfoID] = true
		ids = append(ids, it.ProductInfoID)
	}

	err := s.uow.Within(ctx, func(repos trade.Repositories) error {
		listings, err := repos.Listings.FindListings(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]trade.Listing, len(listings))
		for _, l := range listings {
			byID[l.ID] = l
		}

		basket, _, err := repos.Orders.GetOrCreateBasket(ctx, p.UserID)
		if err != nil {
			return err
		}

		items := make([]*trade.OrderItem, 0, len(req.Items))
		for _, it := range req.Items {
			listing, ok := byID[it.ProductInfoID]
			if !ok {
				return shared.NewValidationError(fmt.Sprintf("Product info %s does not exist", it.ProductInfoID))
			}
			if !listing.ShopOpen {
				return shared.NewValidationError(fmt.Sprintf("Shop of product info %s is not accepting orders", it.ProductInfoID))
			}
			item, err := trade.NewOrderItem(basket.ID, listing.ID, listing.ShopID, listing.Name, it.Quantity)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return repos.Items.CreateBatch(ctx, items)
	})
	if err != nil {
		logger.Or(ctx, s.logger).Debug("basket add rejected",
			zap.String("user_id", p.UserID.String()),
			zap.Int("items", len(req.Items)),
			zap.Error(err),
		)
		return 0, err
	}
	return len(req.Items), nil
}

// Update overwrites quantities of items in the caller's basket.
// Ids outside the basket are skipped; the count of updated items is returned.
func (s *BasketService) Update(ctx context.Context, p identity.Principal, req UpdateItemsRequest) (int64, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return 0, err
	}
	for _, it := range req.Items {
		if err := trade.ValidateQuantity(it.Quantity); err != nil {
			return 0, err
		}
	}

	basket, err := s.orders.FindBasket(ctx, p.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var updated int64
	err = s.uow.Within(ctx, func(repos trade.Repositories) error {
		n, err := repos.Items.UpdateQuantities(ctx, basket.ID, toQuantities(req.Items))
		updated = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// Remove deletes items of the caller's basket. The basket itself stays even when emptied.
func (s *BasketService) Remove(ctx context.Context, p identity.Principal, req RemoveItemsRequest) (int64, error) {
	if err := p.RequireAuthenticated(); err != nil {
		return 0, err
	}
	if len(req.Items) == 0 {
		return 0, shared.NewValidationError("Items are required")
	}

	basket, err := s.orders.FindBasket(ctx, p.UserID)
	if errors.Is(err, shared.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var removed int64
	err = s.uow.Within(ctx, func(repos trade.Repositories) error {
		n, err := repos.Items.DeleteFromOrder(ctx, basket.ID, req.Items)
		removed = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
