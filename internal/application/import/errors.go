package importapp

import (
	"github.com/b2bprocure/backend/internal/domain/bulk"
	"github.com/b2bprocure/backend/internal/domain/shared"
)

// StageError is an import failure tagged with the pipeline stage it happened in.
// It unwraps to the DomainError carrying the FEED_* or VALIDATION_ERROR code.
type StageError struct {
	Stage   bulk.ImportStage
	Err     *shared.DomainError
	Details []bulk.ImportErrorDetail
}

func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Message
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage bulk.ImportStage, code, message string, details []bulk.ImportErrorDetail) *StageError {
	return &StageError{
		Stage:   stage,
		Err:     shared.NewDomainError(code, message),
		Details: details,
	}
}
