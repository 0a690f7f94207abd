package catalog

import (
	"strings"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInfo is one shop's listing of a product with its own price and stock
type ProductInfo struct {
	shared.BaseEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ShopID      uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_product_info_shop_external,priority:1"`
	ExternalID  int64           `gorm:"not null;uniqueIndex:idx_product_info_shop_external,priority:2"`
	Model       string          `gorm:"type:varchar(80)"`
	Name        string          `gorm:"type:varchar(80);not null"`
	Description string          `gorm:"type:text"`
	Quantity    int             `gorm:"not null;default:0"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PriceRRC    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (ProductInfo) TableName() string {
	return "product_infos"
}

// ProductInfoSpec carries the listing attributes taken from a feed good
type ProductInfoSpec struct {
	ExternalID  int64
	Model       string
	Name        string
	Description string
	Quantity    int
	Price       decimal.Decimal
	PriceRRC    decimal.Decimal
}

// NewProductInfo creates a listing of product for shop
func NewProductInfo(productID, shopID uuid.UUID, spec ProductInfoSpec) (*ProductInfo, error) {
	if productID == uuid.Nil || shopID == uuid.Nil {
		return nil, shared.NewValidationError("Product and shop are required")
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if spec.Quantity < 0 {
		return nil, shared.NewValidationError("Quantity cannot be negative")
	}
	if spec.Price.IsNegative() || spec.PriceRRC.IsNegative() {
		return nil, shared.NewValidationError("Price cannot be negative")
	}

	return &ProductInfo{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ShopID:      shopID,
		ExternalID:  spec.ExternalID,
		Model:       spec.Model,
		Name:        strings.TrimSpace(spec.Name),
		Description: spec.Description,
		Quantity:    spec.Quantity,
		Price:       spec.Price,
		PriceRRC:    spec.PriceRRC,
	}, nil
}
