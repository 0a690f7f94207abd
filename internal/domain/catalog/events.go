package catalog

import (
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event type constants
const (
	EventTypeCatalogImported  = "CatalogImported"
	EventTypeShopStateChanged = "ShopStateChanged"
)

// AggregateTypeShop is the aggregate type for shops
const AggregateTypeShop = "Shop"

// CatalogImportedEvent is raised after a feed import commits
type CatalogImportedEvent struct {
	shared.BaseDomainEvent
	ShopID     uuid.UUID `json:"shop_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	ShopName   string    `json:"shop_name"`
	Categories int       `json:"categories"`
	Listings   int       `json:"listings"`
}

// NewCatalogImportedEvent creates a new CatalogImportedEvent
func NewCatalogImportedEvent(shop *Shop, categories, listings int) *CatalogImportedEvent {
	return &CatalogImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCatalogImported, AggregateTypeShop, shop.ID),
		ShopID:          shop.ID,
		OwnerID:         shop.OwnerID,
		ShopName:        shop.Name,
		Categories:      categories,
		Listings:        listings,
	}
}

// ShopStateChangedEvent is raised when a shop opens or closes
type ShopStateChangedEvent struct {
	shared.BaseDomainEvent
	ShopID uuid.UUID `json:"shop_id"`
	State  ShopState `json:"state"`
}

// NewShopStateChangedEvent creates a new ShopStateChangedEvent
func NewShopStateChangedEvent(shop *Shop) *ShopStateChangedEvent {
	return &ShopStateChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShopStateChanged, AggregateTypeShop, shop.ID),
		ShopID:          shop.ID,
		State:           shop.State,
	}
}
