package persistence

import (
	"context"
	"errors"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindByExternalID finds a category by the id feeds use for it
func (r *GormCategoryRepository) FindByExternalID(ctx context.Context, externalID int64) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// GetOrCreateByExternalID returns the existing category or creates one named name.
// An existing category keeps its name.
func (r *GormCategoryRepository) GetOrCreateByExternalID(ctx context.Context, externalID int64, name string) (*catalog.Category, bool, error) {
	existing, err := r.FindByExternalID(ctx, externalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	category, err := catalog.NewCategory(externalID, name)
	if err != nil {
		return nil, false, err
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, false, integrity(r.db, err)
	}
	return category, true, nil
}

// AttachShop links a category to a shop
func (r *GormCategoryRepository) AttachShop(ctx context.Context, categoryID, shopID uuid.UUID) error {
	link := catalog.ShopCategory{ShopID: shopID, CategoryID: categoryID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// List returns categories ordered by name. With shopID set only that shop's categories are returned.
func (r *GormCategoryRepository) List(ctx context.Context, shopID *uuid.UUID, filter shared.Filter) ([]catalog.Category, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&catalog.Category{})
	if shopID != nil {
		query = query.Where("id IN (SELECT category_id FROM shop_categories WHERE shop_id = ?)", *shopID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categories []catalog.Category
	if err := query.Order(orderBy(filter, CategorySortFields, "name", "ASC")).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// Delete removes a category with its products, their listings and shop links
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var productIDs []uuid.UUID
		if err := tx.Model(&catalog.Product{}).Where("category_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if err := deleteProducts(tx, productIDs); err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&catalog.ShopCategory{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&catalog.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}
