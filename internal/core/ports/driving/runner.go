// Package driving defines the inbound ports: interfaces the CLI and
// watch mode use to drive the core services.
package driving

import (
	"context"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
)

// PipelineRunner executes configured pipelines and exposes their history.
type PipelineRunner interface {
	// Run executes the named pipeline to completion or first failure.
	// The returned run is populated in both cases; on failure the error
	// is a *domain.StepError carrying the failing step's exit code.
	Run(ctx context.Context, name string) (*domain.Run, error)

	// Pipelines returns all configured pipelines in registration order.
	Pipelines() []domain.Pipeline

	// History returns recent runs, most recent first.
	// If pipeline is non-empty, only that pipeline's runs are returned.
	History(ctx context.Context, pipeline string, limit int) ([]domain.Run, error)
}
