package persistence

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormListingReader implements trade.ListingReader
type GormListingReader struct {
	db *gorm.DB
}

// NewGormListingReader creates a new GormListingReader
func NewGormListingReader(db *gorm.DB) *GormListingReader {
	return &GormListingReader{db: db}
}

type listingRow struct {
	ID        uuid.UUID
	ShopID    uuid.UUID
	Name      string
	Price     decimal.Decimal
	ShopState string
}

// FindListings returns the listings among ids with their shop state
func (r *GormListingReader) FindListings(ctx context.Context, ids []uuid.UUID) ([]trade.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []listingRow
	if err := r.db.WithContext(ctx).
		Table("product_infos AS pi").
		Select("pi.id, pi.shop_id, pi.name, pi.price, s.state AS shop_state").
		Joins("JOIN shops s ON s.id = pi.shop_id").
		Where("pi.id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	listings := make([]trade.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, trade.Listing{
			ID:       row.ID,
			ShopID:   row.ShopID,
			Name:     row.Name,
			Price:    row.Price,
			ShopOpen: catalog.ShopState(row.ShopState) == catalog.ShopStateOpen,
		})
	}
	return listings, nil
}
