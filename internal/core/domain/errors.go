package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPipelineUnknown indicates no pipeline with the given name is configured.
	ErrPipelineUnknown = errors.New("unknown pipeline")

	// ErrRunInProgress indicates a run is already executing.
	ErrRunInProgress = errors.New("run in progress")
)

// StepError reports the failure of a single pipeline step.
// The pipeline aborts at the first StepError; its ExitCode becomes the
// process exit code.
type StepError struct {
	// Pipeline is the pipeline the step belongs to.
	Pipeline string

	// StepID identifies the failing step.
	StepID string

	// ExitCode is the failing command's exit status.
	// Non-zero even when the command never started.
	ExitCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the failure message.
func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("step %s failed: %v", e.StepID, e.Err)
	}
	return fmt.Sprintf("step %s failed with exit code %d", e.StepID, e.ExitCode)
}

// Unwrap returns the underlying cause.
func (e *StepError) Unwrap() error {
	return e.Err
}
