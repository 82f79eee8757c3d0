package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun persists a run and its step results.
// Creates or updates the run based on ID.
func (s *runStore) SaveRun(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, pipeline, status, exit_code, started_at, ended_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			pipeline = excluded.pipeline,
			status = excluded.status,
			exit_code = excluded.exit_code,
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			error = excluded.error
	`, run.ID, run.Pipeline, run.Status.String(), run.ExitCode,
		formatTime(run.StartedAt), formatNullableTime(run.EndedAt),
		nullString(run.Error))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	// Step results are replaced wholesale; a run's steps only ever grow.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM step_results WHERE run_id = ?", run.ID,
	); err != nil {
		return fmt.Errorf("clearing step results: %w", err)
	}

	for i, step := range run.Steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO step_results (run_id, position, step_id, name, kind, exit_code, started_at, ended_at, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, step.StepID, step.Name, step.Kind.String(), step.ExitCode,
			formatTime(step.StartedAt), formatNullableTime(step.EndedAt),
			nullString(step.Error))
		if err != nil {
			return fmt.Errorf("saving step result %s: %w", step.StepID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID.
func (s *runStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, pipeline, status, exit_code, started_at, ended_at, error
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	steps, err := s.loadSteps(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Steps = steps
	return run, nil
}

// ListRuns returns recent runs, most recent first.
func (s *runStore) ListRuns(ctx context.Context, pipeline string, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, pipeline, status, exit_code, started_at, ended_at, error
		FROM runs
	`
	args := []any{}
	if pipeline != "" {
		query += " WHERE pipeline = ?"
		args = append(args, pipeline)
	}
	query += " ORDER BY started_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRunRows(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		steps, err := s.loadSteps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}
	return runs, nil
}

// PruneRuns removes old runs beyond the retention limit.
// Keeps the most recent 'keep' runs per pipeline.
func (s *runStore) PruneRuns(ctx context.Context, keep int) error {
	if keep <= 0 {
		return nil
	}

	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY pipeline ORDER BY started_at DESC, id
				) AS rn
				FROM runs
			) WHERE rn > ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	return nil
}

// loadSteps fetches a run's step results in execution order.
func (s *runStore) loadSteps(ctx context.Context, runID string) ([]domain.StepResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT step_id, name, kind, exit_code, started_at, ended_at, error
		FROM step_results WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying step results: %w", err)
	}
	defer rows.Close()

	var steps []domain.StepResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			step     domain.StepResult
			kind     string
			started  string
			ended    sql.NullString
			errField sql.NullString
		)
		if err := rows.Scan(&step.StepID, &step.Name, &kind, &step.ExitCode,
			&started, &ended, &errField); err != nil {
			return nil, fmt.Errorf("scanning step result: %w", err)
		}
		step.Kind = domain.StepKind(kind)
		if step.StartedAt, err = parseTime(started); err != nil {
			return nil, err
		}
		if step.EndedAt, err = parseNullableTime(ended); err != nil {
			return nil, err
		}
		step.Error = errField.String
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating step results: %w", err)
	}
	return steps, nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row *sql.Row) (*domain.Run, error) {
	run, err := scanRunFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return run, err
}

func scanRunRows(rows *sql.Rows) (*domain.Run, error) {
	return scanRunFrom(rows)
}

func scanRunFrom(s scanner) (*domain.Run, error) {
	var (
		run      domain.Run
		status   string
		started  string
		ended    sql.NullString
		errField sql.NullString
	)
	err := s.Scan(&run.ID, &run.Pipeline, &status, &run.ExitCode,
		&started, &ended, &errField)
	if err != nil {
		return nil, err
	}

	run.Status = domain.RunStatus(status)
	if run.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if run.EndedAt, err = parseNullableTime(ended); err != nil {
		return nil, err
	}
	run.Error = errField.String
	return &run, nil
}
