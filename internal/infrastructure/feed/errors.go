package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/b2bprocure/backend/internal/domain/bulk"
)

// Feed error codes
const (
	ErrCodeRequired     = "ERR_FEED_REQUIRED_FIELD"
	ErrCodeInvalidType  = "ERR_FEED_INVALID_TYPE"
	ErrCodeInvalidRange = "ERR_FEED_INVALID_RANGE"
	ErrCodeLength       = "ERR_FEED_INVALID_LENGTH"
	ErrCodeDuplicate    = "ERR_FEED_DUPLICATE"
	ErrCodeReference    = "ERR_FEED_REFERENCE_NOT_FOUND"
	ErrCodeSyntax       = "ERR_FEED_SYNTAX"
)

var (
	// ErrEmptyFeed is returned when the fetched document has no content
	ErrEmptyFeed = errors.New("feed document is empty")

	// ErrFeedTooLarge is returned when the body exceeds the configured limit
	ErrFeedTooLarge = errors.New("feed exceeds maximum allowed size")
)

// FieldError is a problem at one location of a feed document
type FieldError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Error implements the error interface
func (e FieldError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ErrorCollection accumulates feed errors up to a limit, counting the rest
type ErrorCollection struct {
	errors     []FieldError
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a new ErrorCollection with a maximum error limit
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]FieldError, 0, 8),
		maxErrors: maxErrors,
	}
}

// Add adds an error to the collection
func (ec *ErrorCollection) Add(err FieldError) {
	ec.totalCount++
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a missing field
func (ec *ErrorCollection) AddRequired(path string) {
	ec.Add(FieldError{Path: path, Code: ErrCodeRequired, Message: "field is required"})
}

// AddRange records a value outside its allowed range
func (ec *ErrorCollection) AddRange(path, message, value string) {
	ec.Add(FieldError{Path: path, Code: ErrCodeInvalidRange, Message: message, Value: value})
}

// AddLength records a string longer than its column
func (ec *ErrorCollection) AddLength(path string, maxLen int) {
	ec.Add(FieldError{Path: path, Code: ErrCodeLength, Message: fmt.Sprintf("length must be at most %d", maxLen)})
}

// AddDuplicate records a repeated identifier
func (ec *ErrorCollection) AddDuplicate(path, value string) {
	ec.Add(FieldError{Path: path, Code: ErrCodeDuplicate, Message: fmt.Sprintf("duplicate value '%s'", value), Value: value})
}

// AddReference records a reference to an undeclared entry
func (ec *ErrorCollection) AddReference(path, value, refType string) {
	ec.Add(FieldError{Path: path, Code: ErrCodeReference, Message: fmt.Sprintf("%s '%s' is not declared", refType, value), Value: value})
}

// Errors returns the collected errors
func (ec *ErrorCollection) Errors() []FieldError {
	return ec.errors
}

// TotalCount returns the total number of errors including those not collected
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors returns true if any error was added
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// Err returns nil when the collection is empty and a *ParseError otherwise
func (ec *ErrorCollection) Err() error {
	if !ec.HasErrors() {
		return nil
	}
	return &ParseError{Errors: ec.errors, Total: ec.totalCount}
}

// ParseError reports an unreadable or invalid feed document
type ParseError struct {
	Errors []FieldError
	Total  int
}

// summaryLimit is how many errors the message lists
const summaryLimit = 3

func (e *ParseError) Error() string {
	parts := make([]string, 0, summaryLimit)
	for i, fe := range e.Errors {
		if i == summaryLimit {
			break
		}
		parts = append(parts, fe.Error())
	}
	msg := "invalid feed: " + strings.Join(parts, "; ")
	if e.Total > len(parts) {
		msg += fmt.Sprintf(" (and %d more)", e.Total-len(parts))
	}
	return msg
}

// Details converts the collected errors for the import history
func (e *ParseError) Details() []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, 0, len(e.Errors))
	for _, fe := range e.Errors {
		details = append(details, bulk.ImportErrorDetail{Path: fe.Path, Message: fe.Message})
	}
	return details
}

// FetchError reports a feed that could not be downloaded
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
