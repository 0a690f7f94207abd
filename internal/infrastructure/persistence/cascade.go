package persistence

import (
	"fmt"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referential integrity between catalog and orders is kept here rather than by
// database cascades. Every function expects to run inside a transaction.

// deleteListings removes the given listings and everything that depends on them:
// their parameter values and basket lines. Lines of placed orders are detached
// and keep their name, shop and price snapshot.
func deleteListings(tx *gorm.DB, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	if err := tx.Where("product_info_id IN ?", ids).Delete(&catalog.ProductParameter{}).Error; err != nil {
		return 0, fmt.Errorf("delete product parameters: %w", err)
	}

	if err := tx.
		Where("product_info_id IN ?", ids).
		Where("order_id IN (SELECT id FROM orders WHERE status = ?)", trade.OrderStatusTemporary).
		Delete(&trade.OrderItem{}).Error; err != nil {
		return 0, fmt.Errorf("delete basket items: %w", err)
	}

	if err := tx.Model(&trade.OrderItem{}).
		Where("product_info_id IN ?", ids).
		Update("product_info_id", nil).Error; err != nil {
		return 0, fmt.Errorf("detach order items: %w", err)
	}

	res := tx.Where("id IN ?", ids).Delete(&catalog.ProductInfo{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete product infos: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// listingIDs returns the ids of listings matching query and args
func listingIDs(tx *gorm.DB, query string, args ...any) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.Model(&catalog.ProductInfo{}).Where(query, args...).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// deleteProducts removes products and their listings
func deleteProducts(tx *gorm.DB, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}
	ids, err := listingIDs(tx, "product_id IN ?", productIDs)
	if err != nil {
		return err
	}
	if _, err := deleteListings(tx, ids); err != nil {
		return err
	}
	return tx.Where("id IN ?", productIDs).Delete(&catalog.Product{}).Error
}

// deleteOrderItems removes all lines of an order
func deleteOrderItems(tx *gorm.DB, orderID uuid.UUID) error {
	return tx.Where("order_id = ?", orderID).Delete(&trade.OrderItem{}).Error
}
