package dto

import (
	"net/http"

	"github.com/b2bprocure/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes come from the shared package.
const (
	// ErrCodeInternal is used for unexpected failures
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed bodies and query strings
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeRateLimited is used when a caller exceeds its request quota
	ErrCodeRateLimited = "RATE_LIMITED"
	// ErrCodeRequestTooLarge is used when a body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	shared.CodeValidation:   http.StatusBadRequest,
	shared.CodeUnauthorized: http.StatusUnauthorized,
	shared.CodeForbidden:    http.StatusForbidden,
	shared.CodeNotFound:     http.StatusNotFound,

	// State and integrity conflicts
	shared.CodeInvalidState:  http.StatusConflict,
	shared.CodeIntegrity:     http.StatusConflict,
	shared.CodeConcurrency:   http.StatusConflict,
	shared.CodeAlreadyExists: http.StatusConflict,

	// Feed import stages
	shared.CodeFeedFetchFailed:   http.StatusBadGateway,
	shared.CodeFeedParseFailed:   http.StatusBadRequest,
	shared.CodeFeedPersistFailed: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
