package persistence

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShopRepository implements catalog.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by its ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Shop, error) {
	var shop catalog.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// FindByOwner finds the shop owned by a user
func (r *GormShopRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*catalog.Shop, error) {
	var shop catalog.Shop
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&shop).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// FindByOwnerAndName finds a shop by owner and exact name
func (r *GormShopRepository) FindByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*catalog.Shop, error) {
	var shop catalog.Shop
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&shop).Error; err != nil {
		return nil, notFound(err)
	}
	return &shop, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, shop *catalog.Shop) error {
	db := r.db.WithContext(ctx)
	return integrity(db, db.Save(shop).Error)
}

// Delete removes a shop, its listings and its category links
func (r *GormShopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := listingIDs(tx, "shop_id = ?", id)
		if err != nil {
			return err
		}
		if _, err := deleteListings(tx, ids); err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", id).Delete(&catalog.ShopCategory{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&catalog.Shop{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// List returns shops ordered by name, optionally filtered by state
func (r *GormShopRepository) List(ctx context.Context, state catalog.ShopState, filter shared.Filter) ([]catalog.Shop, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&catalog.Shop{})
	if state != "" {
		query = query.Where("state = ?", state)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var shops []catalog.Shop
	if err := query.Order(orderBy(filter, ShopSortFields, "name", "ASC")).
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&shops).Error; err != nil {
		return nil, 0, err
	}
	return shops, total, nil
}
