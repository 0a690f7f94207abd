package bulk

import (
	"fmt"
	"time"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ImportStatus represents the status of a feed import
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsValid checks if the status is valid
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusProcessing, ImportStatusCompleted, ImportStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if this is a terminal state
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

// ImportStage names the pipeline stage an import failed in
type ImportStage string

const (
	StageValidate ImportStage = "url_validation"
	StageFetch    ImportStage = "fetch"
	StageParse    ImportStage = "parse"
	StagePersist  ImportStage = "persist"
)

// ImportErrorDetail is a single problem found in a feed
type ImportErrorDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ImportCounters are the totals written by a successful import
type ImportCounters struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Parameters int `json:"parameters"`
	Removed    int `json:"removed"`
}

// FeedImport tracks one run of the catalog importer for a shop owner
type FeedImport struct {
	shared.BaseAggregateRoot
	UserID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ShopID       *uuid.UUID          `gorm:"type:uuid;index"`
	URL          string              `gorm:"type:varchar(2048);not null"`
	Status       ImportStatus        `gorm:"type:varchar(20);not null"`
	FailedStage  ImportStage         `gorm:"type:varchar(20)"`
	ErrorMessage string              `gorm:"type:text"`
	ErrorDetails []ImportErrorDetail `gorm:"type:text;serializer:json"`
	Categories   int                 `gorm:"not null;default:0"`
	Products     int                 `gorm:"not null;default:0"`
	Parameters   int                 `gorm:"not null;default:0"`
	Removed      int                 `gorm:"not null;default:0"`
	StartedAt    time.Time           `gorm:"not null"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (FeedImport) TableName() string {
	return "feed_imports"
}

// NewFeedImport starts tracking an import run
func NewFeedImport(userID uuid.UUID, url string) (*FeedImport, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User is required")
	}
	if url == "" {
		return nil, shared.NewValidationError("URL is required")
	}

	h := &FeedImport{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		URL:               url,
		Status:            ImportStatusProcessing,
		ErrorDetails:      make([]ImportErrorDetail, 0),
	}
	h.StartedAt = h.CreatedAt
	return h, nil
}

// Complete marks the import as successfully completed
func (h *FeedImport) Complete(shopID uuid.UUID, counters ImportCounters) error {
	if h.Status != ImportStatusProcessing {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot complete from state: %s", h.Status))
	}

	h.ShopID = &shopID
	h.Status = ImportStatusCompleted
	h.Categories = counters.Categories
	h.Products = counters.Products
	h.Parameters = counters.Parameters
	h.Removed = counters.Removed
	h.finish()
	return nil
}

// Fail marks the import as failed in stage
func (h *FeedImport) Fail(stage ImportStage, message string, details []ImportErrorDetail) error {
	if h.Status.IsTerminal() {
		return shared.NewDomainError(shared.CodeInvalidState, fmt.Sprintf("Cannot fail from terminal state: %s", h.Status))
	}

	h.Status = ImportStatusFailed
	h.FailedStage = stage
	h.ErrorMessage = message
	if details == nil {
		details = make([]ImportErrorDetail, 0)
	}
	h.ErrorDetails = details
	h.finish()
	return nil
}

func (h *FeedImport) finish() {
	now := time.Now()
	h.CompletedAt = &now
	h.Bump(now)
}

// Duration returns how long the import ran, or has been running
func (h *FeedImport) Duration() time.Duration {
	end := time.Now()
	if h.CompletedAt != nil {
		end = *h.CompletedAt
	}
	return end.Sub(h.StartedAt)
}
