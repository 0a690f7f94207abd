package catalog

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QueryService serves the public, read-only catalog
type QueryService struct {
	categories catalog.CategoryRepository
	shops      catalog.ShopRepository
	products   catalog.QueryRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(categories catalog.CategoryRepository, shops catalog.ShopRepository, products catalog.QueryRepository) *QueryService {
	return &QueryService{
		categories: categories,
		shops:      shops,
		products:   products,
	}
}

// Categories lists categories, optionally only those a shop offers
func (s *QueryService) Categories(ctx context.Context, filter CategoryListFilter) (*shared.Paginated[CategoryResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	categories, total, err := s.categories.List(ctx, filter.ShopID, f)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, len(categories))
	for i := range categories {
		items[i] = ToCategoryResponse(&categories[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Shops lists shops, optionally by state
func (s *QueryService) Shops(ctx context.Context, filter ShopListFilter) (*shared.Paginated[ShopResponse], error) {
	state := catalog.ShopState(filter.State)
	if state != "" && !state.IsValid() {
		return nil, shared.NewValidationError("Shop state must be 'open' or 'closed'")
	}
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}.Normalize()

	shops, total, err := s.shops.List(ctx, state, f)
	if err != nil {
		return nil, err
	}
	items := make([]ShopResponse, len(shops))
	for i := range shops {
		items[i] = ToShopResponse(&shops[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Products lists listings of open shops with filtering, search and price ordering
func (s *QueryService) Products(ctx context.Context, filter ProductListFilter) (*shared.Paginated[catalog.ProductView], error) {
	ordering := catalog.ProductOrdering(filter.Ordering)
	if !ordering.IsValid() {
		return nil, shared.NewValidationError("ordering must be 'price' or '-price'")
	}

	pf := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
		}.Normalize(),
		CategoryID: filter.CategoryID,
		ShopID:     filter.ShopID,
		Ordering:   ordering,
	}

	products, total, err := s.products.ListProducts(ctx, pf)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []catalog.ProductView{}
	}
	page := shared.NewPaginated(products, total, pf.Page, pf.PageSize)
	return &page, nil
}

// Product returns one listing of an open shop
func (s *QueryService) Product(ctx context.Context, id uuid.UUID) (*catalog.ProductView, error) {
	return s.products.GetProduct(ctx, id)
}
