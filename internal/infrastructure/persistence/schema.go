package persistence

import (
	"fmt"

	"github.com/b2bprocure/backend/internal/domain/bulk"
	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order
func Models() []any {
	return []any{
		&catalog.Shop{},
		&catalog.Category{},
		&catalog.ShopCategory{},
		&catalog.Product{},
		&catalog.ProductInfo{},
		&catalog.Parameter{},
		&catalog.ProductParameter{},
		&identity.Contact{},
		&trade.Order{},
		&trade.OrderItem{},
		&bulk.FeedImport{},
	}
}

// basketIndexDDL enforces one temporary order per user
const basketIndexDDL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_one_basket ON orders (user_id) WHERE status = 'temporary'`

// AutoMigrate derives the schema from the models. Postgres deployments use
// the versioned files under migrations/ instead.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(basketIndexDDL).Error; err != nil {
		return fmt.Errorf("create basket index: %w", err)
	}
	return nil
}
