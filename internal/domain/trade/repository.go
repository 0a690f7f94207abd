package trade

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderRepository defines persistence for orders
type OrderRepository interface {
	// FindByID finds an order by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindBasket returns the user's temporary order or shared.ErrNotFound
	FindBasket(ctx context.Context, userID uuid.UUID) (*Order, error)

	// GetOrCreateBasket returns the user's temporary order, creating it when missing
	GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*Order, bool, error)

	// SubmitBasket persists a submitted order with a single conditional update on
	// status = 'temporary' and snapshots the unit prices of its items.
	// It returns the number of orders updated, 0 when the order was no longer a basket.
	SubmitBasket(ctx context.Context, order *Order) (int64, error)

	// UpdateStatus persists a status change only if the stored status still equals from
	UpdateStatus(ctx context.Context, order *Order, from OrderStatus) (int64, error)

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemQuantity is a requested quantity change for one item
type ItemQuantity struct {
	ItemID   uuid.UUID
	Quantity int
}

// OrderItemRepository defines persistence for order items
type OrderItemRepository interface {
	// CreateBatch inserts items. Constraint violations surface as INTEGRITY_ERROR.
	CreateBatch(ctx context.Context, items []*OrderItem) error

	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)

	// UpdateQuantities updates the items of orderID listed in changes and skips the rest
	UpdateQuantities(ctx context.Context, orderID uuid.UUID, changes []ItemQuantity) (int64, error)

	// DeleteFromOrder deletes the listed items that belong to orderID
	DeleteFromOrder(ctx context.Context, orderID uuid.UUID, ids []uuid.UUID) (int64, error)

	// HasShopItems reports whether the order contains at least one item of shopID
	HasShopItems(ctx context.Context, orderID, shopID uuid.UUID) (bool, error)
}

// Listing is what ordering needs to know about a shop's product listing
type Listing struct {
	ID       uuid.UUID
	ShopID   uuid.UUID
	Name     string
	Price    decimal.Decimal
	ShopOpen bool
}

// ListingReader resolves listings for basket operations
type ListingReader interface {
	// FindListings returns the listings among ids that exist, in no particular order
	FindListings(ctx context.Context, ids []uuid.UUID) ([]Listing, error)
}

// Repositories groups trade repositories bound to the same connection or transaction
type Repositories struct {
	Orders   OrderRepository
	Items    OrderItemRepository
	Listings ListingReader
}

// UnitOfWork runs fn with repositories scoped to a single transaction
type UnitOfWork interface {
	Within(ctx context.Context, fn func(repos Repositories) error) error
}

// QueryRepository serves priced order projections
type QueryRepository interface {
	// Summary returns one order with priced lines
	Summary(ctx context.Context, orderID uuid.UUID) (*OrderSummary, error)

	// ListByUser returns the user's placed orders, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderSummary, int64, error)

	// ListByShop returns placed orders containing items of shopID. Lines and totals
	// are restricted to that shop's items.
	ListByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]OrderSummary, int64, error)
}
