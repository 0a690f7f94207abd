package trade

import (
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is a line of an order.
// ProductInfoID becomes nil when the listing is replaced by a later import;
// ShopID, ProductName and UnitPrice keep the line readable afterwards.
type OrderItem struct {
	shared.BaseEntity
	OrderID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_order_item_listing,priority:1"`
	ProductInfoID *uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_order_item_listing,priority:2"`
	ShopID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName   string           `gorm:"type:varchar(80);not null"`
	Quantity      int              `gorm:"not null"`
	UnitPrice     *decimal.Decimal `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a basket line for a listing
func NewOrderItem(orderID, productInfoID, shopID uuid.UUID, productName string, quantity int) (*OrderItem, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Order is required")
	}
	if productInfoID == uuid.Nil {
		return nil, shared.NewValidationError("Product info is required")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return &OrderItem{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       orderID,
		ProductInfoID: &productInfoID,
		ShopID:        shopID,
		ProductName:   productName,
		Quantity:      quantity,
	}, nil
}

// SetQuantity overwrites the line quantity
func (i *OrderItem) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	return nil
}

// EffectivePrice returns the snapshot price when recorded, otherwise the live listing price
func (i *OrderItem) EffectivePrice(live *decimal.Decimal) decimal.Decimal {
	if i.UnitPrice != nil {
		return *i.UnitPrice
	}
	if live != nil {
		return *live
	}
	return decimal.Zero
}

// ValidateQuantity rejects non-positive quantities
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewValidationError("Quantity must be positive")
	}
	return nil
}
