package persistence

import (
	"context"
	"strings"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductQueryRepository implements catalog.QueryRepository
type GormProductQueryRepository struct {
	db *gorm.DB
}

// NewGormProductQueryRepository creates a new GormProductQueryRepository
func NewGormProductQueryRepository(db *gorm.DB) *GormProductQueryRepository {
	return &GormProductQueryRepository{db: db}
}

type productRow struct {
	ID           uuid.UUID
	ExternalID   int64
	Model        string
	Name         string
	Description  string
	Quantity     int
	Price        decimal.Decimal
	PriceRRC     decimal.Decimal
	ProductName  string
	CategoryID   uuid.UUID
	CategoryName string
	ShopID       uuid.UUID
	ShopName     string
}

const productColumns = `pi.id, pi.external_id, pi.model, pi.name, pi.description, pi.quantity,
	pi.price, pi.price_rrc, p.name AS product_name, c.id AS category_id, c.name AS category_name,
	s.id AS shop_id, s.name AS shop_name`

// listings joins a listing with its product, category and shop. Closed shops are hidden.
func (r *GormProductQueryRepository) listings(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product_infos AS pi").
		Joins("JOIN products p ON p.id = pi.product_id").
		Joins("JOIN categories c ON c.id = p.category_id").
		Joins("JOIN shops s ON s.id = pi.shop_id").
		Where("s.state = ?", catalog.ShopStateOpen)
}

// ListProducts returns listings matching filter
// likeEscaper makes wildcard characters in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *GormProductQueryRepository) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]catalog.ProductView, int64, error) {
	paging := filter.Filter.Normalize()

	query := r.listings(ctx)
	if filter.CategoryID != nil {
		query = query.Where("c.id = ?", *filter.CategoryID)
	}
	if filter.ShopID != nil {
		query = query.Where("s.id = ?", *filter.ShopID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(`(LOWER(pi.description) LIKE ? ESCAPE '\' OR LOWER(pi.model) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "pi.created_at ASC, pi.id ASC"
	switch filter.Ordering {
	case catalog.OrderingPriceAsc:
		order = "pi.price ASC, pi.id ASC"
	case catalog.OrderingPriceDesc:
		order = "pi.price DESC, pi.id ASC"
	}

	var rows []productRow
	if err := query.Select(productColumns).
		Order(order).
		Offset(paging.Offset()).Limit(paging.PageSize).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	views, err := r.withParameters(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// GetProduct returns a single listing of an open shop
func (r *GormProductQueryRepository) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductView, error) {
	var rows []productRow
	if err := r.listings(ctx).
		Select(productColumns).
		Where("pi.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, shared.ErrNotFound
	}
	views, err := r.withParameters(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

type parameterRow struct {
	ProductInfoID uuid.UUID
	Name          string
	Value         string
}

func (r *GormProductQueryRepository) withParameters(ctx context.Context, rows []productRow) ([]catalog.ProductView, error) {
	views := make([]catalog.ProductView, 0, len(rows))
	if len(rows) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var params []parameterRow
	if err := r.db.WithContext(ctx).
		Table("product_parameters AS pp").
		Select("pp.product_info_id, prm.name, pp.value").
		Joins("JOIN parameters prm ON prm.id = pp.parameter_id").
		Where("pp.product_info_id IN ?", ids).
		Order("prm.name ASC").
		Scan(&params).Error; err != nil {
		return nil, err
	}

	byListing := make(map[uuid.UUID][]catalog.ParameterValue, len(rows))
	for _, p := range params {
		byListing[p.ProductInfoID] = append(byListing[p.ProductInfoID], catalog.ParameterValue{Name: p.Name, Value: p.Value})
	}

	for _, row := range rows {
		values := byListing[row.ID]
		if values == nil {
			values = []catalog.ParameterValue{}
		}
		views = append(views, catalog.ProductView{
			ID:           row.ID,
			ExternalID:   row.ExternalID,
			Model:        row.Model,
			Name:         row.Name,
			Description:  row.Description,
			ProductName:  row.ProductName,
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			ShopID:       row.ShopID,
			ShopName:     row.ShopName,
			Quantity:     row.Quantity,
			Price:        row.Price,
			PriceRRC:     row.PriceRRC,
			Parameters:   values,
		})
	}
	return views, nil
}
