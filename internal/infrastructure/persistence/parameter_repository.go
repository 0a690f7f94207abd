package persistence

import (
	"context"
	"errors"

	"github.com/b2bprocure/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormParameterRepository implements catalog.ParameterRepository using GORM
type GormParameterRepository struct {
	db *gorm.DB
}

// NewGormParameterRepository creates a new GormParameterRepository
func NewGormParameterRepository(db *gorm.DB) *GormParameterRepository {
	return &GormParameterRepository{db: db}
}

// GetOrCreate returns the parameter with name, creating it when missing
func (r *GormParameterRepository) GetOrCreate(ctx context.Context, name string) (*catalog.Parameter, bool, error) {
	param, err := catalog.NewParameter(name)
	if err != nil {
		return nil, false, err
	}

	var existing catalog.Parameter
	err = r.db.WithContext(ctx).Where("name = ?", param.Name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := r.db.WithContext(ctx).Create(param).Error; err != nil {
		return nil, false, integrity(r.db, err)
	}
	return param, true, nil
}
