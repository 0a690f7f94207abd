package persistence

import (
	"context"
	"time"

	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderItemRepository implements trade.OrderItemRepository using GORM
type GormOrderItemRepository struct {
	db *gorm.DB
}

// NewGormOrderItemRepository creates a new GormOrderItemRepository
func NewGormOrderItemRepository(db *gorm.DB) *GormOrderItemRepository {
	return &GormOrderItemRepository{db: db}
}

// CreateBatch inserts items in one statement
func (r *GormOrderItemRepository) CreateBatch(ctx context.Context, items []*trade.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return integrity(r.db, r.db.WithContext(ctx).Create(&items).Error)
}

// ListByOrder returns the items of an order in insertion order
func (r *GormOrderItemRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]trade.OrderItem, error) {
	var items []trade.OrderItem
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByOrder counts the items of an order
func (r *GormOrderItemRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&trade.OrderItem{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}

// UpdateQuantities applies each change to the matching item of orderID.
// Items of other orders are never touched.
func (r *GormOrderItemRepository) UpdateQuantities(ctx context.Context, orderID uuid.UUID, changes []trade.ItemQuantity) (int64, error) {
	var updated int64
	now := time.Now()
	for _, ch := range changes {
		res := r.db.WithContext(ctx).Model(&trade.OrderItem{}).
			Where("id = ? AND order_id = ?", ch.ItemID, orderID).
			Updates(map[string]any{"quantity": ch.Quantity, "updated_at": now})
		if res.Error != nil {
			return updated, res.Error
		}
		updated += res.RowsAffected
	}
	return updated, nil
}

// DeleteFromOrder deletes the listed items of orderID and ignores the rest
func (r *GormOrderItemRepository) DeleteFromOrder(ctx context.Context, orderID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, ids).
		Delete(&trade.OrderItem{})
	return res.RowsAffected, res.Error
}

// HasShopItems reports whether the order has an item of shopID
func (r *GormOrderItemRepository) HasShopItems(ctx context.Context, orderID, shopID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&trade.OrderItem{}).
		Where("order_id = ? AND shop_id = ?", orderID, shopID).
		Count(&n).Error
	return n > 0, err
}
