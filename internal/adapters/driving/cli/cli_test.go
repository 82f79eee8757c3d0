package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/services"
)

// mockRunner implements driving.PipelineRunner for command tests.
type mockRunner struct {
	ran       []string
	runErr    error
	pipelines []domain.Pipeline
	history   []domain.Run
}

func (m *mockRunner) Run(_ context.Context, name string) (*domain.Run, error) {
	m.ran = append(m.ran, name)
	if m.runErr != nil {
		return &domain.Run{Pipeline: name, Status: domain.RunStatusFailed}, m.runErr
	}
	now := time.Now().UTC()
	return &domain.Run{
		ID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
		Pipeline:  name,
		Status:    domain.RunStatusSucceeded,
		StartedAt: now.Add(-time.Second),
		EndedAt:   now,
		Steps:     []domain.StepResult{{StepID: "deps"}},
	}, nil
}

func (m *mockRunner) Pipelines() []domain.Pipeline {
	return m.pipelines
}

func (m *mockRunner) History(_ context.Context, pipeline string, _ int) ([]domain.Run, error) {
	if pipeline == "" {
		return m.history, nil
	}
	var out []domain.Run
	for _, run := range m.history {
		if run.Pipeline == pipeline {
			out = append(out, run)
		}
	}
	return out, nil
}

// execute runs the root command with args against a mock runner and
// returns the combined output.
func execute(t *testing.T, mock *mockRunner, args ...string) (string, error) {
	t.Helper()

	SetRunner(mock)
	prevStyle := styleEnabled
	styleEnabled = func() bool { return false }
	t.Cleanup(func() {
		SetRunner(nil)
		styleEnabled = prevStyle
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		flagVerbose = false
		flagConfig = ""
		flagDir = ""
		flagNoHistory = false
	})

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestBuildCommand_RunsBuildPipeline(t *testing.T) {
	mock := &mockRunner{}

	out, err := execute(t, mock, "build")
	require.NoError(t, err)

	assert.Equal(t, []string{services.PipelineNameBuild}, mock.ran)
	assert.Contains(t, out, "Pipeline build completed successfully!")
}

func TestDeployCommand_RunsDeployPipeline(t *testing.T) {
	mock := &mockRunner{}

	out, err := execute(t, mock, "deploy")
	require.NoError(t, err)

	assert.Equal(t, []string{services.PipelineNameDeploy}, mock.ran)
	assert.Contains(t, out, "Pipeline deploy completed successfully!")
}

func TestRunCommand_RequiresPipelineName(t *testing.T) {
	mock := &mockRunner{}

	_, err := execute(t, mock, "run")
	require.Error(t, err)
	assert.Empty(t, mock.ran)
}

func TestRunCommand_PropagatesStepError(t *testing.T) {
	stepErr := &domain.StepError{Pipeline: "build", StepID: "migrate", ExitCode: 2}
	mock := &mockRunner{runErr: stepErr}

	out, err := execute(t, mock, "run", "build")
	require.Error(t, err)

	var got *domain.StepError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 2, got.ExitCode)
	assert.NotContains(t, out, "completed successfully")
}

func TestPipelinesCommand_ListsConfigured(t *testing.T) {
	mock := &mockRunner{
		pipelines: services.DefaultPipelines(services.ProjectConfig{}),
	}

	out, err := execute(t, mock, "pipelines")
	require.NoError(t, err)

	assert.Contains(t, out, "build - ")
	assert.Contains(t, out, "deploy - ")
	assert.Contains(t, out, "1. Installing dependencies")
	assert.Contains(t, out, "Collecting static assets")
}

func TestHistoryCommand_Empty(t *testing.T) {
	mock := &mockRunner{}

	out, err := execute(t, mock, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryCommand_PrintsRuns(t *testing.T) {
	now := time.Now().UTC()
	mock := &mockRunner{
		history: []domain.Run{
			{
				ID:        "11111111-2222-3333-4444-555555555555",
				Pipeline:  "build",
				Status:    domain.RunStatusFailed,
				ExitCode:  2,
				StartedAt: now.Add(-time.Minute),
				EndedAt:   now,
				Steps: []domain.StepResult{
					{StepID: "migrate", ExitCode: 2, Error: "exit code 2"},
				},
			},
			{
				ID:        "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee",
				Pipeline:  "deploy",
				Status:    domain.RunStatusSucceeded,
				StartedAt: now.Add(-2 * time.Minute),
				EndedAt:   now.Add(-time.Minute),
			},
		},
	}

	out, err := execute(t, mock, "history")
	require.NoError(t, err)

	assert.Contains(t, out, "11111111")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "migrate")
	assert.Contains(t, out, "aaaaaaaa")
	assert.Contains(t, out, "succeeded")
}

func TestVersionCommand(t *testing.T) {
	mock := &mockRunner{}

	out, err := execute(t, mock, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "buildpipe version")
}

func TestWatchCommand_UnknownPipeline(t *testing.T) {
	mock := &mockRunner{runErr: domain.ErrPipelineUnknown}

	_, err := execute(t, mock, "watch", "release")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPipelineUnknown)
}

func TestInitCommand_WritesStarterConfig(t *testing.T) {
	mock := &mockRunner{}
	dir := t.TempDir()

	out, err := execute(t, mock, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "buildpipe.toml")

	_, statErr := os.Stat(filepath.Join(dir, "buildpipe.toml"))
	assert.NoError(t, statErr)

	// A second init refuses to overwrite.
	_, err = execute(t, mock, "init", "--dir", dir)
	require.Error(t, err)
}

func TestRootHelp_ListsCommands(t *testing.T) {
	mock := &mockRunner{}

	out, err := execute(t, mock, "--help")
	require.NoError(t, err)

	for _, name := range []string{"build", "deploy", "run", "pipelines", "history", "watch", "init", "version"} {
		assert.Contains(t, out, name)
	}
}
