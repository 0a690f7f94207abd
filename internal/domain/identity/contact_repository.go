package identity

import (
	"context"

	"github.com/google/uuid"
)

// ContactRepository persists buyer contacts
type ContactRepository interface {
	// FindByIDForUser returns the contact only when it belongs to userID
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Contact, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Contact, error)
	Save(ctx context.Context, contact *Contact) error
	// DeleteForUser removes the listed contacts owned by userID and returns how many were removed
	DeleteForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
