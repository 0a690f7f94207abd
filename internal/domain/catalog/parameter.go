package catalog

import (
	"strings"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Parameter is a globally named attribute such as "color" or "memory"
type Parameter struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(40);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Parameter) TableName() string {
	return "parameters"
}

// NewParameter creates a parameter name
func NewParameter(name string) (*Parameter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("Parameter name cannot be empty")
	}
	return &Parameter{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// ProductParameter is the value of one parameter on one listing
type ProductParameter struct {
	shared.BaseEntity
	ProductInfoID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_parameter,priority:1"`
	ParameterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_parameter,priority:2"`
	Value         string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ProductParameter) TableName() string {
	return "product_parameters"
}

// NewProductParameter creates a parameter value for a listing
func NewProductParameter(productInfoID, parameterID uuid.UUID, value string) *ProductParameter {
	return &ProductParameter{
		BaseEntity:    shared.NewBaseEntity(),
		ProductInfoID: productInfoID,
		ParameterID:   parameterID,
		Value:         value,
	}
}
