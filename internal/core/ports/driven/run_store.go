package driven

import (
	"context"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
)

// RunStore persists pipeline runs and their step results.
type RunStore interface {
	// SaveRun persists a run and its step results.
	// Creates or updates the run based on ID.
	SaveRun(ctx context.Context, run *domain.Run) error

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound if the run does not exist.
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// ListRuns returns recent runs, most recent first.
	// If pipeline is non-empty, only that pipeline's runs are returned.
	ListRuns(ctx context.Context, pipeline string, limit int) ([]domain.Run, error)

	// PruneRuns removes old runs beyond the retention limit.
	// Keeps the most recent 'keep' runs per pipeline.
	PruneRuns(ctx context.Context, keep int) error
}
