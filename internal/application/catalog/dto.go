package catalog

import (
	"time"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// CategoryListFilter narrows GET categories
type CategoryListFilter struct {
	ShopID   *uuid.UUID `form:"shop_id"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by" binding:"omitempty,oneof=name external_id"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ShopListFilter narrows GET shops
type ShopListFilter struct {
	State    string `form:"state" binding:"omitempty,oneof=open closed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name state created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductListFilter narrows GET products
type ProductListFilter struct {
	CategoryID *uuid.UUID `form:"category_id"`
	ShopID     *uuid.UUID `form:"shop_id"`
	Search     string     `form:"search" binding:"omitempty,max=100"`
	Ordering   string     `form:"ordering" binding:"omitempty,oneof=price -price"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SetShopStateRequest opens or closes the caller's shop
type SetShopStateRequest struct {
	State string `json:"state" binding:"required,oneof=open closed"`
}

// CategoryResponse is a category in listings
type CategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	ExternalID int64     `json:"external_id"`
	Name       string    `json:"name"`
}

// ShopResponse is a shop in listings
type ShopResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	URL       string            `json:"url,omitempty"`
	State     catalog.ShopState `json:"state"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:         c.ID,
		ExternalID: c.ExternalID,
		Name:       c.Name,
	}
}

// ToShopResponse converts a domain Shop
func ToShopResponse(s *catalog.Shop) ShopResponse {
	return ShopResponse{
		ID:        s.ID,
		Name:      s.Name,
		URL:       s.URL,
		State:     s.State,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
