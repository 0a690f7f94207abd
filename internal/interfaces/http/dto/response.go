package dto

// Envelope keys of mutating operations
const (
	KeyStatus  = "Status"
	KeyErrors  = "Errors"
	KeyCode    = "Code"
	KeyStage   = "Stage"
	KeyDetails = "Details"
)

// Result is the body of a mutating operation:
// {"Status": bool, "Errors"?: string, <counters>}.
// Read operations return their entity directly instead.
type Result map[string]any

// OK creates a successful result
func OK() Result {
	return Result{KeyStatus: true}
}

// Failed creates a failed result carrying message and its error code
func Failed(code, message string) Result {
	return Result{
		KeyStatus: false,
		KeyErrors: message,
		KeyCode:   code,
	}
}

// With adds a counter or other extra field and returns r
func (r Result) With(key string, value any) Result {
	r[key] = value
	return r
}

// Succeeded reports the Status field
func (r Result) Succeeded() bool {
	ok, _ := r[KeyStatus].(bool)
	return ok
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
