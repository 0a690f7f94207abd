package persistence

import (
	"context"
	"errors"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetOrCreate returns the product named name in categoryID, creating it when missing
func (r *GormProductRepository) GetOrCreate(ctx context.Context, name string, categoryID uuid.UUID) (*catalog.Product, bool, error) {
	product, err := catalog.NewProduct(name, categoryID)
	if err != nil {
		return nil, false, err
	}

	var existing catalog.Product
	err = r.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", product.Name, categoryID).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, false, integrity(r.db, err)
	}
	return product, true, nil
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// Delete removes a product and its listings
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProducts(tx, []uuid.UUID{id})
	})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
