package bulk

import (
	"errors"
	"testing"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status ImportStatus
		want   bool
	}{
		{ImportStatusProcessing, false},
		{ImportStatusCompleted, true},
		{ImportStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
			assert.True(t, tt.status.IsValid())
		})
	}
}

func TestNewFeedImport(t *testing.T) {
	h, err := NewFeedImport(uuid.New(), "https://example.com/feed.yaml")
	require.NoError(t, err)
	assert.Equal(t, ImportStatusProcessing, h.Status)
	assert.False(t, h.StartedAt.IsZero())
	assert.Nil(t, h.CompletedAt)

	_, err = NewFeedImport(uuid.Nil, "https://example.com/feed.yaml")
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewFeedImport(uuid.New(), "")
	assert.Error(t, err)
}

func TestFeedImport_Complete(t *testing.T) {
	h, err := NewFeedImport(uuid.New(), "https://example.com/feed.yaml")
	require.NoError(t, err)

	shopID := uuid.New()
	require.NoError(t, h.Complete(shopID, ImportCounters{Categories: 1, Products: 3, Parameters: 2}))
	assert.Equal(t, ImportStatusCompleted, h.Status)
	assert.Equal(t, shopID, *h.ShopID)
	assert.Equal(t, 3, h.Products)
	assert.NotNil(t, h.CompletedAt)
	assert.GreaterOrEqual(t, h.Duration().Nanoseconds(), int64(0))

	err = h.Fail(StageParse, "late failure", nil)
	assert.True(t, errors.Is(err, shared.ErrInvalidState))
}

func TestFeedImport_Fail(t *testing.T) {
	h, err := NewFeedImport(uuid.New(), "https://example.com/feed.yaml")
	require.NoError(t, err)

	details := []ImportErrorDetail{{Path: "goods[0].name", Message: "name is required"}}
	require.NoError(t, h.Fail(StageParse, "feed is invalid", details))
	assert.Equal(t, ImportStatusFailed, h.Status)
	assert.Equal(t, StageParse, h.FailedStage)
	assert.Len(t, h.ErrorDetails, 1)

	err = h.Complete(uuid.New(), ImportCounters{})
	assert.Error(t, err)
}
