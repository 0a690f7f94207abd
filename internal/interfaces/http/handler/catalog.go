package handler

import (
	catalogapp "github.com/b2bprocure/backend/internal/application/catalog"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogHandler serves the public catalog reads
type CatalogHandler struct {
	BaseHandler
	queries *catalogapp.QueryService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(queries *catalogapp.QueryService) *CatalogHandler {
	return &CatalogHandler{queries: queries}
}

// Ids arrive as strings so that binding can validate them before parsing.
type categoryQuery struct {
	ShopID   string `form:"shop_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name external_id"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

type productQuery struct {
	CategoryID string `form:"category_id" binding:"omitempty,uuid"`
	ShopID     string `form:"shop_id" binding:"omitempty,uuid"`
	Search     string `form:"search" binding:"omitempty,max=100"`
	Ordering   string `form:"ordering" binding:"omitempty,oneof=price -price"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Categories lists categories, optionally only those offered by shop_id
func (h *CatalogHandler) Categories(c *gin.Context) {
	var q categoryQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.queries.Categories(c.Request.Context(), catalogapp.CategoryListFilter{
		ShopID:   parseOptionalUUID(q.ShopID),
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
	})
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, page)
}

// Shops lists shops, optionally by state
func (h *CatalogHandler) Shops(c *gin.Context) {
	var filter catalogapp.ShopListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.queries.Shops(c.Request.Context(), filter)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, page)
}

// Products lists listings of open shops with their parameters
func (h *CatalogHandler) Products(c *gin.Context) {
	var q productQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.queries.Products(c.Request.Context(), catalogapp.ProductListFilter{
		CategoryID: parseOptionalUUID(q.CategoryID),
		ShopID:     parseOptionalUUID(q.ShopID),
		Search:     q.Search,
		Ordering:   q.Ordering,
		Page:       q.Page,
		PageSize:   q.PageSize,
	})
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, page)
}

// Product returns one listing
func (h *CatalogHandler) Product(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Fail(c, shared.NewValidationError("Product id must be a UUID"))
		return
	}
	product, err := h.queries.Product(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	h.Data(c, product)
}
