package importapp

import (
	"time"

	"github.com/b2bprocure/backend/internal/domain/bulk"
	"github.com/google/uuid"
)

// ImportFeedRequest asks to load the caller's catalog from url
type ImportFeedRequest struct {
	URL string `json:"url" binding:"required,max=2048"`
}

// ImportResult reports what a successful import wrote
type ImportResult struct {
	ImportID   uuid.UUID `json:"import_id"`
	ShopID     uuid.UUID `json:"shop_id"`
	Categories int       `json:"categories"`
	Products   int       `json:"products"`
	Parameters int       `json:"parameters"`
	Removed    int       `json:"removed"`
}

// HistoryListFilter is the paging accepted by the import history
type HistoryListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FeedImportResponse is one import history record
type FeedImportResponse struct {
	ID           uuid.UUID                `json:"id"`
	ShopID       *uuid.UUID               `json:"shop_id,omitempty"`
	URL          string                   `json:"url"`
	Status       bulk.ImportStatus        `json:"status"`
	FailedStage  bulk.ImportStage         `json:"failed_stage,omitempty"`
	ErrorMessage string                   `json:"error_message,omitempty"`
	ErrorDetails []bulk.ImportErrorDetail `json:"error_details,omitempty"`
	Categories   int                      `json:"categories"`
	Products     int                      `json:"products"`
	Parameters   int                      `json:"parameters"`
	Removed      int                      `json:"removed"`
	StartedAt    time.Time                `json:"started_at"`
	CompletedAt  *time.Time               `json:"completed_at,omitempty"`
	DurationMS   int64                    `json:"duration_ms"`
}

// HistoryListResponse is a page of import history
type HistoryListResponse struct {
	Items    []FeedImportResponse `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// ToFeedImportResponse converts a history record
func ToFeedImportResponse(h *bulk.FeedImport) FeedImportResponse {
	return FeedImportResponse{
		ID:           h.ID,
		ShopID:       h.ShopID,
		URL:          h.URL,
		Status:       h.Status,
		FailedStage:  h.FailedStage,
		ErrorMessage: h.ErrorMessage,
		ErrorDetails: h.ErrorDetails,
		Categories:   h.Categories,
		Products:     h.Products,
		Parameters:   h.Parameters,
		Removed:      h.Removed,
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
		DurationMS:   h.Duration().Milliseconds(),
	}
}
