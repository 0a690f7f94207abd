package catalog

import (
	"strings"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products. Categories are global and keyed by the numeric id feeds use.
type Category struct {
	shared.BaseEntity
	ExternalID int64  `gorm:"not null;uniqueIndex"`
	Name       string `gorm:"type:varchar(40);not null"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category for a feed-assigned id
func NewCategory(externalID int64, name string) (*Category, error) {
	if externalID <= 0 {
		return nil, shared.NewValidationError("Category id must be positive")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Category name cannot be empty")
	}
	if len([]rune(name)) > 40 {
		return nil, shared.NewValidationError("Category name cannot exceed 40 characters")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		ExternalID: externalID,
		Name:       name,
	}, nil
}

// ShopCategory is the shop <-> category association
type ShopCategory struct {
	ShopID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (ShopCategory) TableName() string {
	return "shop_categories"
}
