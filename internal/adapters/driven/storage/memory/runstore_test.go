package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
)

func newRun(pipeline string, startedAt time.Time) *domain.Run {
	return &domain.Run{
		ID:        uuid.NewString(),
		Pipeline:  pipeline,
		Status:    domain.RunStatusSucceeded,
		StartedAt: startedAt,
		EndedAt:   startedAt.Add(time.Minute),
		Steps: []domain.StepResult{
			{StepID: "deps", Kind: domain.StepKindDepsInstall, StartedAt: startedAt},
		},
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := newRun("build", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, run))

	retrieved, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, retrieved.ID)
	assert.Len(t, retrieved.Steps, 1)

	// Stored runs are isolated from later mutation of the original.
	run.Steps[0].StepID = "mutated"
	retrieved, err = store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "deps", retrieved.Steps[0].StepID)
}

func TestRunStore_GetNotFound(t *testing.T) {
	store := NewRunStore()
	_, err := store.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_SaveInvalid(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveRun(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveRun(ctx, &domain.Run{}), domain.ErrInvalidInput)
}

func TestRunStore_ListRuns(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	oldest := newRun("build", base)
	middle := newRun("deploy", base.Add(time.Minute))
	newest := newRun("build", base.Add(2*time.Minute))
	for _, run := range []*domain.Run{oldest, middle, newest} {
		require.NoError(t, store.SaveRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, newest.ID, runs[0].ID)
	assert.Equal(t, oldest.ID, runs[2].ID)

	buildOnly, err := store.ListRuns(ctx, "build", 10)
	require.NoError(t, err)
	require.Len(t, buildOnly, 2)

	limited, err := store.ListRuns(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, newest.ID, limited[0].ID)
}

func TestRunStore_ListRuns_Isolated(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	run := newRun("build", time.Now().UTC())
	require.NoError(t, store.SaveRun(ctx, run))

	runs, err := store.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	// Mutating a listed run must not reach back into the store.
	runs[0].Steps[0].StepID = "mutated"

	retrieved, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "deps", retrieved.Steps[0].StepID)
}

func TestRunStore_PruneRuns(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.SaveRun(ctx, newRun("build", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, store.SaveRun(ctx, newRun("deploy", base)))

	require.NoError(t, store.PruneRuns(ctx, 2))

	buildRuns, err := store.ListRuns(ctx, "build", 10)
	require.NoError(t, err)
	assert.Len(t, buildRuns, 2)

	// Other pipelines keep their runs.
	deployRuns, err := store.ListRuns(ctx, "deploy", 10)
	require.NoError(t, err)
	assert.Len(t, deployRuns, 1)

	assert.Equal(t, 3, store.Len())
}
