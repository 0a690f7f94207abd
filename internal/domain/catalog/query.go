package catalog

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductOrdering is the sort applied to product listings
type ProductOrdering string

const (
	OrderingNone      ProductOrdering = ""
	OrderingPriceAsc  ProductOrdering = "price"
	OrderingPriceDesc ProductOrdering = "-price"
)

// IsValid checks if the ordering is supported
func (o ProductOrdering) IsValid() bool {
	switch o {
	case OrderingNone, OrderingPriceAsc, OrderingPriceDesc:
		return true
	}
	return false
}

// ProductFilter narrows the public product listing
type ProductFilter struct {
	shared.Filter
	CategoryID *uuid.UUID
	ShopID     *uuid.UUID
	Ordering   ProductOrdering
}

// ParameterValue is a parameter name with its value on a listing
type ParameterValue struct {
	Name  string `json:"parameter"`
	Value string `json:"value"`
}

// ProductView is the read projection of a listing
type ProductView struct {
	ID           uuid.UUID        `json:"id"`
	ExternalID   int64            `json:"external_id"`
	Model        string           `json:"model"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	ProductName  string           `json:"product"`
	CategoryID   uuid.UUID        `json:"category_id"`
	CategoryName string           `json:"category"`
	ShopID       uuid.UUID        `json:"shop_id"`
	ShopName     string           `json:"shop"`
	Quantity     int              `json:"quantity"`
	Price        decimal.Decimal  `json:"price"`
	PriceRRC     decimal.Decimal  `json:"price_rrc"`
	Parameters   []ParameterValue `json:"product_parameters"`
}

// QueryRepository serves the public read side of the catalog
type QueryRepository interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductView, int64, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
}
