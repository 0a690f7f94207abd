package persistence

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormContactRepository implements identity.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByIDForUser finds a contact owned by userID
func (r *GormContactRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*identity.Contact, error) {
	var contact identity.Contact
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&contact).Error; err != nil {
		return nil, notFound(err)
	}
	return &contact, nil
}

// FindByUser lists a user's contacts, oldest first
func (r *GormContactRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.Contact, error) {
	var contacts []identity.Contact
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *identity.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

// DeleteForUser deletes the user's listed contacts. Contacts that placed orders
// point at are kept so order history stays complete.
func (r *GormContactRepository) DeleteForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Where("id NOT IN (SELECT contact_id FROM orders WHERE contact_id IS NOT NULL)").
		Delete(&identity.Contact{})
	return res.RowsAffected, res.Error
}
