package persistence

import (
	"context"
	"database/sql"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderQueryRepository implements trade.QueryRepository.
// Totals use the submit-time price snapshot when present and the live listing price otherwise.
type GormOrderQueryRepository struct {
	db *gorm.DB
}

// NewGormOrderQueryRepository creates a new GormOrderQueryRepository
func NewGormOrderQueryRepository(db *gorm.DB) *GormOrderQueryRepository {
	return &GormOrderQueryRepository{db: db}
}

type lineRow struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	ProductInfoID *uuid.UUID
	ShopID        uuid.UUID
	ShopName      sql.NullString
	ProductName   string
	Model         sql.NullString
	Quantity      int
	UnitPrice     decimal.NullDecimal
	LivePrice     decimal.NullDecimal
}

// Summary returns one order with priced lines
func (r *GormOrderQueryRepository) Summary(ctx context.Context, orderID uuid.UUID) (*trade.OrderSummary, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, notFound(err)
	}
	summaries, err := r.summarize(ctx, []trade.Order{order}, nil)
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

// ListByUser returns the user's placed orders, newest first
func (r *GormOrderQueryRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]trade.OrderSummary, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Order{}).
		Where("user_id = ? AND status <> ?", userID, trade.OrderStatusTemporary)
	return r.list(ctx, query, filter, nil)
}

// ListByShop returns placed orders containing items of shopID with lines of that shop only
func (r *GormOrderQueryRepository) ListByShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]trade.OrderSummary, int64, error) {
	query := r.db.WithContext(ctx).Model(&trade.Order{}).
		Where("status <> ?", trade.OrderStatusTemporary).
		Where("id IN (SELECT order_id FROM order_items WHERE shop_id = ?)", shopID)
	return r.list(ctx, query, filter, &shopID)
}

func (r *GormOrderQueryRepository) list(ctx context.Context, query *gorm.DB, filter shared.Filter, shopID *uuid.UUID) ([]trade.OrderSummary, int64, error) {
	filter = filter.Normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []trade.Order
	if err := query.
		Order(orderBy(filter, OrderSortFields, "created_at", "DESC")).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	summaries, err := r.summarize(ctx, orders, shopID)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// summarize loads and prices the lines of orders, restricted to shopID when set
func (r *GormOrderQueryRepository) summarize(ctx context.Context, orders []trade.Order, shopID *uuid.UUID) ([]trade.OrderSummary, error) {
	summaries := make([]trade.OrderSummary, 0, len(orders))
	if len(orders) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	query := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Select(`oi.id, oi.order_id, oi.product_info_id, oi.shop_id, s.name AS shop_name,
			oi.product_name, pi.model AS model, oi.quantity, oi.unit_price, pi.price AS live_price`).
		Joins("LEFT JOIN product_infos pi ON pi.id = oi.product_info_id").
		Joins("LEFT JOIN shops s ON s.id = oi.shop_id").
		Where("oi.order_id IN ?", ids)
	if shopID != nil {
		query = query.Where("oi.shop_id = ?", *shopID)
	}

	var rows []lineRow
	if err := query.Order("oi.created_at ASC, oi.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	linesByOrder := make(map[uuid.UUID][]trade.OrderLine, len(orders))
	for _, row := range rows {
		item := trade.OrderItem{
			ProductInfoID: row.ProductInfoID,
			ShopID:        row.ShopID,
			ProductName:   row.ProductName,
			Quantity:      row.Quantity,
		}
		item.ID = row.ID
		if row.UnitPrice.Valid {
			item.UnitPrice = &row.UnitPrice.Decimal
		}
		var live *decimal.Decimal
		if row.LivePrice.Valid {
			live = &row.LivePrice.Decimal
		}

		line := trade.NewOrderLine(item, live)
		line.ShopName = row.ShopName.String
		line.Model = row.Model.String
		linesByOrder[row.OrderID] = append(linesByOrder[row.OrderID], line)
	}

	for i := range orders {
		summaries = append(summaries, trade.NewOrderSummary(&orders[i], linesByOrder[orders[i].ID]))
	}
	return summaries, nil
}
