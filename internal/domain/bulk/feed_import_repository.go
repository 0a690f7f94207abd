package bulk

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FeedImportRepository defines the interface for import history persistence
type FeedImportRepository interface {
	// Save saves an import record (create or update)
	Save(ctx context.Context, history *FeedImport) error

	// FindByID finds an import record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FeedImport, error)

	// ListByUser returns a user's imports, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]FeedImport, int64, error)
}
