// Package memory provides in-memory store implementations used by tests
// and runs that opt out of persistent history.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is a thread-safe in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.Run
}

// NewRunStore creates an empty in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.Run),
	}
}

// SaveRun persists a run and its step results.
func (s *RunStore) SaveRun(_ context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *run
	stored.Steps = make([]domain.StepResult, len(run.Steps))
	copy(stored.Steps, run.Steps)
	s.runs[run.ID] = stored
	return nil
}

// GetRun retrieves a run by ID.
func (s *RunStore) GetRun(_ context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := run
	out.Steps = make([]domain.StepResult, len(run.Steps))
	copy(out.Steps, run.Steps)
	return &out, nil
}

// ListRuns returns recent runs, most recent first.
func (s *RunStore) ListRuns(_ context.Context, pipeline string, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var runs []domain.Run //nolint:prealloc // filtered below
	for _, run := range s.runs {
		if pipeline != "" && run.Pipeline != pipeline {
			continue
		}
		out := run
		out.Steps = make([]domain.StepResult, len(run.Steps))
		copy(out.Steps, run.Steps)
		runs = append(runs, out)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// PruneRuns keeps the most recent 'keep' runs per pipeline.
func (s *RunStore) PruneRuns(_ context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byPipeline := make(map[string][]domain.Run)
	for _, run := range s.runs {
		byPipeline[run.Pipeline] = append(byPipeline[run.Pipeline], run)
	}

	for _, runs := range byPipeline {
		sort.Slice(runs, func(i, j int) bool {
			if runs[i].StartedAt.Equal(runs[j].StartedAt) {
				return runs[i].ID < runs[j].ID
			}
			return runs[i].StartedAt.After(runs[j].StartedAt)
		})
		for _, run := range runs[min(keep, len(runs)):] {
			delete(s.runs, run.ID)
		}
	}
	return nil
}

// Len returns the number of stored runs.
func (s *RunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
