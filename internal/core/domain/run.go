package domain

import "time"

// RunStatus is the terminal or in-flight state of a pipeline run.
type RunStatus string

// Available run statuses.
const (
	// RunStatusRunning means the pipeline is still executing.
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded means every step exited zero.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed means a step failed and the pipeline aborted.
	RunStatusFailed RunStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s RunStatus) IsValid() bool {
	switch s {
	case RunStatusRunning, RunStatusSucceeded, RunStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s RunStatus) String() string {
	return string(s)
}

// Terminal returns true once the run can no longer change state.
func (s RunStatus) Terminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed
}

// StepResult records the outcome of a single executed step.
// Steps never reached because of an earlier failure have no result.
type StepResult struct {
	// StepID identifies the step within its pipeline.
	StepID string

	// Name is the step's display name at execution time.
	Name string

	// Kind is the step's kind at execution time.
	Kind StepKind

	// StartedAt is when the step began.
	StartedAt time.Time

	// EndedAt is when the step's command exited.
	EndedAt time.Time

	// ExitCode is the command's exit status; zero on success.
	ExitCode int

	// Error holds the failure message, empty on success.
	Error string
}

// Duration returns how long the step took.
func (r StepResult) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Run records one execution of a pipeline.
type Run struct {
	// ID is the unique run identifier.
	ID string

	// Pipeline is the name of the pipeline that ran.
	Pipeline string

	// Status is the run's current state.
	Status RunStatus

	// ExitCode is the process exit code the run maps to:
	// zero on success, the failing step's code otherwise.
	ExitCode int

	// StartedAt is when the first step began.
	StartedAt time.Time

	// EndedAt is when the run reached a terminal state.
	EndedAt time.Time

	// Error holds the first failure message, empty on success.
	Error string

	// Steps holds results for every step that was started, in order.
	Steps []StepResult
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
