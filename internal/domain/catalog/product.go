package catalog

import (
	"strings"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Product is the shop-independent identity of a good inside a category
type Product struct {
	shared.BaseEntity
	Name       string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_product_name_category,priority:1"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_name_category,priority:2"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product in a category
func NewProduct(name string, categoryID uuid.UUID) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if len([]rune(name)) > 80 {
		return nil, shared.NewValidationError("Product name cannot exceed 80 characters")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewValidationError("Product category is required")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		CategoryID: categoryID,
	}, nil
}
