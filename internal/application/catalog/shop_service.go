package catalog

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ShopService lets a shop owner inspect and toggle order acceptance
type ShopService struct {
	shops     catalog.ShopRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewShopService creates a new ShopService
func NewShopService(shops catalog.ShopRepository, publisher shared.EventPublisher, logger *zap.Logger) *ShopService {
	return &ShopService{
		shops:     shops,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns the caller's shop. Owners that never imported a catalog have none.
func (s *ShopService) Get(ctx context.Context, p identity.Principal) (*ShopResponse, error) {
	if err := p.RequireShop(); err != nil {
		return nil, err
	}
	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// SetState opens or closes the caller's shop for new basket items
func (s *ShopService) SetState(ctx context.Context, p identity.Principal, req SetShopStateRequest) (*ShopResponse, error) {
	if err := p.RequireShop(); err != nil {
		return nil, err
	}
	shop, err := s.shops.FindByOwner(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	previous := shop.State
	if err := shop.SetState(catalog.ShopState(req.State)); err != nil {
		return nil, err
	}
	resp := ToShopResponse(shop)
	if shop.State == previous {
		return &resp, nil
	}

	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, err
	}
	s.logger.Info("shop state changed",
		zap.String("shop_id", shop.ID.String()),
		zap.String("state", string(shop.State)),
	)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, catalog.NewShopStateChangedEvent(shop)); err != nil {
			s.logger.Error("failed to publish shop state change", zap.Error(err))
		}
	}
	return &resp, nil
}
