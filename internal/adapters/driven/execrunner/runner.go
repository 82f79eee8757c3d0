// Package execrunner runs pipeline step commands through os/exec.
package execrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driven"
	"github.com/dataset-analyzer/buildpipe/internal/logger"
)

// Ensure Runner implements the port.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner executes external commands synchronously, streaming their
// output to the provided writers.
type Runner struct{}

// New creates a command runner.
func New() *Runner {
	return &Runner{}
}

// Run executes the command described by spec.
// The command's exit code is returned with a nil error when the command ran,
// whatever its exit status. A non-nil error means it never ran: empty argv,
// binary not found, or context cancellation.
func (r *Runner) Run(
	ctx context.Context,
	spec driven.CommandSpec,
	stdout, stderr io.Writer,
) (int, error) {
	if len(spec.Argv) == 0 {
		return 0, fmt.Errorf("%w: empty command", domain.ErrInvalidInput)
	}

	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	logger.Debug("exec: %v", spec.Argv)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	// Cancellation wins over whatever exit state the kill produced.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	// Start failure: binary missing, permission denied, bad working dir.
	return 0, fmt.Errorf("running %s: %w", spec.Argv[0], err)
}
