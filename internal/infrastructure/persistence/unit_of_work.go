package persistence

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// NewCatalogRepositories binds the catalog repositories to db
func NewCatalogRepositories(db *gorm.DB) catalog.Repositories {
	return catalog.Repositories{
		Shops:        NewGormShopRepository(db),
		Categories:   NewGormCategoryRepository(db),
		Products:     NewGormProductRepository(db),
		ProductInfos: NewGormProductInfoRepository(db),
		Parameters:   NewGormParameterRepository(db),
	}
}

// NewTradeRepositories binds the trade repositories to db
func NewTradeRepositories(db *gorm.DB) trade.Repositories {
	return trade.Repositories{
		Orders:   NewGormOrderRepository(db),
		Items:    NewGormOrderItemRepository(db),
		Listings: NewGormListingReader(db),
	}
}

// CatalogUnitOfWork implements catalog.UnitOfWork
type CatalogUnitOfWork struct {
	db *gorm.DB
}

// NewCatalogUnitOfWork creates a new CatalogUnitOfWork
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{db: db}
}

// Within runs fn in a transaction with repositories bound to it
func (u *CatalogUnitOfWork) Within(ctx context.Context, fn func(repos catalog.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCatalogRepositories(tx))
	})
}

// TradeUnitOfWork implements trade.UnitOfWork
type TradeUnitOfWork struct {
	db *gorm.DB
}

// NewTradeUnitOfWork creates a new TradeUnitOfWork
func NewTradeUnitOfWork(db *gorm.DB) *TradeUnitOfWork {
	return &TradeUnitOfWork{db: db}
}

// Within runs fn in a transaction with repositories bound to it
func (u *TradeUnitOfWork) Within(ctx context.Context, fn func(repos trade.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTradeRepositories(tx))
	})
}
