package persistence

import (
	"strings"

	"github.com/b2bprocure/backend/internal/domain/shared"
)

// ValidateSortOrder normalizes orderDir to ASC or DESC, falling back to defaultDir
func ValidateSortOrder(orderDir, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return defaultDir
}

// ValidateSortField returns sortField when it is whitelisted and defaultField otherwise
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ShopSortFields contains allowed sort fields for shops
var ShopSortFields = map[string]bool{
	"name":       true,
	"state":      true,
	"created_at": true,
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"name":        true,
	"external_id": true,
}

// OrderSortFields contains allowed sort fields for order views
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"submitted_at": true,
	"status":       true,
}

// orderBy builds a whitelisted ORDER BY clause with id as tie breaker
func orderBy(filter shared.Filter, allowed map[string]bool, defaultField, defaultDir string) string {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return field + " " + ValidateSortOrder(filter.OrderDir, defaultDir) + ", id ASC"
}
