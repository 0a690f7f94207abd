package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// FindBasket returns the user's temporary order
func (r *GormOrderRepository) FindBasket(ctx context.Context, userID uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, trade.OrderStatusTemporary).
		First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// GetOrCreateBasket returns the user's temporary order, creating it when missing.
// A concurrent creation loses on the one-basket index and re-reads the winner.
func (r *GormOrderRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*trade.Order, bool, error) {
	existing, err := r.FindBasket(ctx, userID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	basket, err := trade.NewBasket(userID)
	if err != nil {
		return nil, false, err
	}
	// The savepoint keeps an enclosing postgres transaction usable after a lost race.
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(basket).Error
	})
	if err != nil {
		if isConstraintViolation(r.db, err) {
			existing, findErr := r.FindBasket(ctx, userID)
			return existing, false, findErr
		}
		return nil, false, err
	}
	return basket, true, nil
}

// SubmitBasket moves a basket to new in one guarded UPDATE and snapshots item prices
func (r *GormOrderRepository) SubmitBasket(ctx context.Context, order *trade.Order) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&trade.Order{}).
		Where("id = ? AND user_id = ? AND status = ?", order.ID, order.UserID, trade.OrderStatusTemporary).
		Updates(map[string]any{
			"status":       order.Status,
			"contact_id":   order.ContactID,
			"submitted_at": order.SubmittedAt,
			"version":      gorm.Expr("version + 1"),
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return 0, integrity(r.db, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, nil
	}

	if err := db.Exec(`UPDATE order_items
		SET unit_price = (SELECT pi.price FROM product_infos pi WHERE pi.id = order_items.product_info_id)
		WHERE order_id = ? AND product_info_id IS NOT NULL`, order.ID).Error; err != nil {
		return 0, err
	}
	return res.RowsAffected, nil
}

// UpdateStatus stores order.Status if the row still has status from
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, order *trade.Order, from trade.OrderStatus) (int64, error) {
	res := r.db.WithContext(ctx).Model(&trade.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(map[string]any{
			"status":     order.Status,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// Delete removes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteOrderItems(tx, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&trade.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
