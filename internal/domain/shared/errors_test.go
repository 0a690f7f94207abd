package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel by code through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load order: %w", NewDomainError(CodeNotFound, "order not found"))
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrForbidden))
	})

	t.Run("errors.As exposes code and message", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", NewValidationError("quantity must be positive"))
		var domainErr *DomainError
		assert.True(t, errors.As(err, &domainErr))
		assert.Equal(t, CodeValidation, domainErr.Code)
		assert.Equal(t, "quantity must be positive", domainErr.Message)
	})
}

func TestNewIntegrityError_KeepsMessage(t *testing.T) {
	err := NewIntegrityError(errors.New("UNIQUE constraint failed: order_items.order_id"))
	assert.Equal(t, CodeIntegrity, err.Code)
	assert.Equal(t, "UNIQUE constraint failed: order_items.order_id", err.Error())
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPageSize, f.PageSize)
	assert.NotNil(t, f.Filters)

	f = Filter{Page: 3, PageSize: 10}.Normalize()
	assert.Equal(t, 20, f.Offset())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 21, 1, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(21), p.Total)
}
