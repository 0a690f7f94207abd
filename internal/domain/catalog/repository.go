package catalog

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ShopRepository defines persistence for shops
type ShopRepository interface {
	// FindByID finds a shop by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// FindByOwner finds the shop owned by a user
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*Shop, error)

	// FindByOwnerAndName finds a shop by owner and name
	FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*Shop, error)

	// Save creates or updates a shop
	Save(ctx context.Context, shop *Shop) error

	// Delete removes a shop together with its listings and category links
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns shops, optionally filtered by state
	List(ctx context.Context, state ShopState, filter shared.Filter) ([]Shop, int64, error)
}

// CategoryRepository defines persistence for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByExternalID(ctx context.Context, externalID int64) (*Category, error)

	// GetOrCreateByExternalID returns the category with the feed id, creating it with name when missing
	GetOrCreateByExternalID(ctx context.Context, externalID int64, name string) (*Category, bool, error)

	// AttachShop links a category to a shop. Linking twice is a no-op.
	AttachShop(ctx context.Context, categoryID, shopID uuid.UUID) error

	// List returns categories, restricted to those offered by shopID when it is set
	List(ctx context.Context, shopID *uuid.UUID, filter shared.Filter) ([]Category, int64, error)

	// Delete removes a category with its products and their listings
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository defines persistence for products
type ProductRepository interface {
	GetOrCreate(ctx context.Context, name string, categoryID uuid.UUID) (*Product, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Delete removes a product with its listings
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductInfoRepository defines persistence for shop listings
type ProductInfoRepository interface {
	// Create inserts a listing and its parameter values
	Create(ctx context.Context, info *ProductInfo, params []*ProductParameter) error

	FindByID(ctx context.Context, id uuid.UUID) (*ProductInfo, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProductInfo, error)

	// DeleteByShop removes every listing of a shop. Basket lines pointing at them are
	// removed and placed order lines are detached.
	DeleteByShop(ctx context.Context, shopID uuid.UUID) (int64, error)

	CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]ProductInfo, error)
}

// ParameterRepository defines persistence for parameter names
type ParameterRepository interface {
	GetOrCreate(ctx context.Context, name string) (*Parameter, bool, error)
}

// Repositories groups catalog repositories bound to the same connection or transaction
type Repositories struct {
	Shops        ShopRepository
	Categories   CategoryRepository
	Products     ProductRepository
	ProductInfos ProductInfoRepository
	Parameters   ParameterRepository
}

// UnitOfWork runs fn with repositories scoped to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(repos Repositories) error) error
}
