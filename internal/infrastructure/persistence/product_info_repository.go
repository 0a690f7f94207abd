package persistence

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductInfoRepository implements catalog.ProductInfoRepository using GORM
type GormProductInfoRepository struct {
	db *gorm.DB
}

// NewGormProductInfoRepository creates a new GormProductInfoRepository
func NewGormProductInfoRepository(db *gorm.DB) *GormProductInfoRepository {
	return &GormProductInfoRepository{db: db}
}

// Create inserts a listing and its parameter values
func (r *GormProductInfoRepository) Create(ctx context.Context, info *catalog.ProductInfo, params []*catalog.ProductParameter) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(info).Error; err != nil {
		return integrity(r.db, err)
	}
	if len(params) == 0 {
		return nil
	}
	for _, p := range params {
		p.ProductInfoID = info.ID
	}
	return integrity(r.db, db.Create(&params).Error)
}

// FindByID finds a listing by its ID
func (r *GormProductInfoRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductInfo, error) {
	var info catalog.ProductInfo
	if err := r.db.WithContext(ctx).First(&info, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &info, nil
}

// FindByIDs returns the listings that exist among ids
func (r *GormProductInfoRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.ProductInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var infos []catalog.ProductInfo
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}

// DeleteByShop removes every listing of a shop with their dependents
func (r *GormProductInfoRepository) DeleteByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := listingIDs(tx, "shop_id = ?", shopID)
		if err != nil {
			return err
		}
		removed, err = deleteListings(tx, ids)
		return err
	})
	return removed, err
}

// CountByShop counts the listings of a shop
func (r *GormProductInfoRepository) CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&catalog.ProductInfo{}).Where("shop_id = ?", shopID).Count(&n).Error
	return n, err
}

// ListByShop returns the listings of a shop ordered by feed id
func (r *GormProductInfoRepository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]catalog.ProductInfo, error) {
	var infos []catalog.ProductInfo
	if err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("external_id ASC").
		Find(&infos).Error; err != nil {
		return nil, err
	}
	return infos, nil
}
