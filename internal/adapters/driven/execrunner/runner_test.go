package execrunner

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driven"
)

func TestRunner_Success(t *testing.T) {
	r := New()
	var stdout, stderr bytes.Buffer

	code, err := r.Run(context.Background(), driven.CommandSpec{
		Argv: []string{"sh", "-c", "echo hello"},
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", stdout.String())
}

func TestRunner_NonZeroExit(t *testing.T) {
	r := New()
	var stdout, stderr bytes.Buffer

	code, err := r.Run(context.Background(), driven.CommandSpec{
		Argv: []string{"sh", "-c", "exit 7"},
	}, &stdout, &stderr)

	// A command that ran and failed is not an infrastructure error.
	require.NoError(t, err)
	assert.Equal(t, 7, code)
}

func TestRunner_StderrStreamed(t *testing.T) {
	r := New()
	var stdout, stderr bytes.Buffer

	code, err := r.Run(context.Background(), driven.CommandSpec{
		Argv: []string{"sh", "-c", "echo oops >&2; exit 1"},
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "oops\n", stderr.String())
	assert.Empty(t, stdout.String())
}

func TestRunner_CommandNotFound(t *testing.T) {
	r := New()
	var stdout, stderr bytes.Buffer

	_, err := r.Run(context.Background(), driven.CommandSpec{
		Argv: []string{"definitely-not-a-real-binary-4217"},
	}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-4217")
}

func TestRunner_EmptyArgv(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	_, err := r.Run(context.Background(), driven.CommandSpec{}, &buf, &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunner_WorkingDirectory(t *testing.T) {
	r := New()
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code, err := r.Run(context.Background(), driven.CommandSpec{
		Argv: []string{"pwd"},
		Dir:  dir,
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), dir)
}

func TestRunner_ExtraEnv(t *testing.T) {
	r := New()
	var stdout, stderr bytes.Buffer

	code, err := r.Run(context.Background(), driven.CommandSpec{
		Argv: []string{"sh", "-c", "echo $BUILDPIPE_TEST_VALUE"},
		Env:  []string{"BUILDPIPE_TEST_VALUE=wired"},
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "wired\n", stdout.String())
}

func TestRunner_ContextCancellation(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, driven.CommandSpec{
		Argv: []string{"sleep", "30"},
	}, &buf, &buf)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
