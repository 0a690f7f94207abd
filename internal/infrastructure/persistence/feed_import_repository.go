package persistence

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/bulk"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFeedImportRepository implements bulk.FeedImportRepository using GORM
type GormFeedImportRepository struct {
	db *gorm.DB
}

// NewGormFeedImportRepository creates a new GormFeedImportRepository
func NewGormFeedImportRepository(db *gorm.DB) *GormFeedImportRepository {
	return &GormFeedImportRepository{db: db}
}

// Save creates or updates an import record
func (r *GormFeedImportRepository) Save(ctx context.Context, history *bulk.FeedImport) error {
	return r.db.WithContext(ctx).Save(history).Error
}

// FindByID finds an import record by its ID
func (r *GormFeedImportRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.FeedImport, error) {
	var history bulk.FeedImport
	if err := r.db.WithContext(ctx).First(&history, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &history, nil
}

// ListByUser returns a user's import records, newest first
func (r *GormFeedImportRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]bulk.FeedImport, int64, error) {
	filter = filter.Normalize()
	query := r.db.WithContext(ctx).Model(&bulk.FeedImport{}).Where("user_id = ?", userID)
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []bulk.FeedImport
	if err := query.Order("started_at DESC, id ASC").
		Offset(filter.Offset()).Limit(filter.PageSize).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
