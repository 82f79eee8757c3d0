package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driven"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driving"
	"github.com/dataset-analyzer/buildpipe/internal/logger"
)

// Ensure Runner implements the driving port.
var _ driving.PipelineRunner = (*Runner)(nil)

// RunnerConfig holds runner construction options.
type RunnerConfig struct {
	// Out receives step progress lines and command stdout.
	// Defaults to os.Stdout.
	Out io.Writer

	// ErrOut receives command stderr. Defaults to os.Stderr.
	ErrOut io.Writer

	// Dir is the project directory commands run in and directories are
	// provisioned under. Empty means the current directory.
	Dir string

	// HistoryKeep is how many runs per pipeline survive pruning after a
	// run completes. Zero disables pruning.
	HistoryKeep int
}

// Runner executes pipelines step by step with fail-fast semantics and
// records every run in the store.
type Runner struct {
	cfg       RunnerConfig
	cmd       driven.CommandRunner
	store     driven.RunStore
	pipelines []domain.Pipeline
	byName    map[string]domain.Pipeline

	mu      sync.Mutex
	running bool
}

// NewRunner creates a pipeline runner.
// Every pipeline is validated up front; duplicate names are rejected.
func NewRunner(
	cfg RunnerConfig,
	cmd driven.CommandRunner,
	store driven.RunStore,
	pipelines ...domain.Pipeline,
) (*Runner, error) {
	if cmd == nil {
		return nil, fmt.Errorf("%w: command runner is required", domain.ErrInvalidInput)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: run store is required", domain.ErrInvalidInput)
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.ErrOut == nil {
		cfg.ErrOut = os.Stderr
	}

	r := &Runner{
		cfg:    cfg,
		cmd:    cmd,
		store:  store,
		byName: make(map[string]domain.Pipeline, len(pipelines)),
	}
	for _, p := range pipelines {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byName[p.Name]; exists {
			return nil, fmt.Errorf("%w: duplicate pipeline %s", domain.ErrInvalidInput, p.Name)
		}
		r.byName[p.Name] = p
		r.pipelines = append(r.pipelines, p)
	}
	return r, nil
}

// Pipelines returns all configured pipelines in registration order.
func (r *Runner) Pipelines() []domain.Pipeline {
	out := make([]domain.Pipeline, len(r.pipelines))
	copy(out, r.pipelines)
	return out
}

// History returns recent runs from the store, most recent first.
func (r *Runner) History(ctx context.Context, pipeline string, limit int) ([]domain.Run, error) {
	return r.store.ListRuns(ctx, pipeline, limit)
}

// Run executes the named pipeline. Steps run strictly in order; the first
// failure aborts the run and no later step is started. The run is recorded
// in the store whether it succeeds or fails.
func (r *Runner) Run(ctx context.Context, name string) (*domain.Run, error) {
	pipeline, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPipelineUnknown, name)
	}

	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, domain.ErrRunInProgress
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	run := &domain.Run{
		ID:        uuid.NewString(),
		Pipeline:  pipeline.Name,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	logger.Section("pipeline " + pipeline.Name)

	for _, step := range pipeline.Steps {
		if err := ctx.Err(); err != nil {
			return r.fail(ctx, run, step, 1, err)
		}

		fmt.Fprintf(r.cfg.Out, "%s...\n", step.DisplayName())
		logger.Debug("step %s (%s) starting", step.ID, step.Kind)

		result := domain.StepResult{
			StepID:    step.ID,
			Name:      step.DisplayName(),
			Kind:      step.Kind,
			StartedAt: time.Now().UTC(),
		}

		exitCode, err := r.execute(ctx, step)
		result.EndedAt = time.Now().UTC()
		result.ExitCode = exitCode

		if err != nil || exitCode != 0 {
			if exitCode == 0 {
				exitCode = 1
				result.ExitCode = 1
			}
			if err != nil {
				result.Error = err.Error()
			} else {
				result.Error = fmt.Sprintf("exit code %d", exitCode)
			}
			run.Steps = append(run.Steps, result)
			return r.fail(ctx, run, step, exitCode, err)
		}

		logger.Debug("step %s done in %s", step.ID, result.Duration())
		run.Steps = append(run.Steps, result)
	}

	run.Status = domain.RunStatusSucceeded
	run.EndedAt = time.Now().UTC()
	r.record(ctx, run)
	return run, nil
}

// execute runs one step: directory provisioning inline, everything else
// through the command runner.
func (r *Runner) execute(ctx context.Context, step domain.Step) (int, error) {
	if step.Kind == domain.StepKindEnsureDirs {
		return r.provision(step.Dirs)
	}

	spec := driven.CommandSpec{
		Argv: step.Argv,
		Dir:  r.cfg.Dir,
	}
	return r.cmd.Run(ctx, spec, r.cfg.Out, r.cfg.ErrOut)
}

// provision creates the step's directories, parents included.
// Idempotent: pre-existing directories are not an error.
func (r *Runner) provision(dirs []string) (int, error) {
	for _, dir := range dirs {
		path := dir
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.cfg.Dir, dir)
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return 1, fmt.Errorf("creating directory %s: %w", dir, err)
		}
		logger.Debug("directory %s ready", path)
	}
	return 0, nil
}

// fail finalises a failed run, records it, and returns the step error.
func (r *Runner) fail(
	ctx context.Context,
	run *domain.Run,
	step domain.Step,
	exitCode int,
	cause error,
) (*domain.Run, error) {
	run.Status = domain.RunStatusFailed
	run.ExitCode = exitCode
	run.EndedAt = time.Now().UTC()

	stepErr := &domain.StepError{
		Pipeline: run.Pipeline,
		StepID:   step.ID,
		ExitCode: exitCode,
		Err:      cause,
	}
	run.Error = stepErr.Error()

	r.record(ctx, run)
	return run, stepErr
}

// record saves the run and prunes history. Persistence problems are
// logged, not surfaced: the run outcome takes precedence.
func (r *Runner) record(ctx context.Context, run *domain.Run) {
	// Recording must survive a cancelled run context.
	saveCtx := context.WithoutCancel(ctx)

	if err := r.store.SaveRun(saveCtx, run); err != nil {
		logger.Warn("recording run %s: %v", run.ID, err)
		return
	}
	if r.cfg.HistoryKeep > 0 {
		if err := r.store.PruneRuns(saveCtx, r.cfg.HistoryKeep); err != nil {
			logger.Warn("pruning run history: %v", err)
		}
	}
}
