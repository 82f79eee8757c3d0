package driven

import (
	"context"
	"io"
)

// CommandSpec describes one external command invocation.
type CommandSpec struct {
	// Argv is the command and its arguments. Never empty.
	Argv []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Env holds extra environment variables in KEY=VALUE form,
	// appended to the inherited environment.
	Env []string
}

// CommandRunner executes external commands synchronously.
// Implementations must honour context cancellation by killing the command.
type CommandRunner interface {
	// Run executes the command, streaming its output to stdout and stderr.
	// Returns the command's exit code. A non-nil error means the command
	// could not be run at all (not found, context cancelled); a command
	// that ran and exited non-zero returns its code with a nil error.
	Run(ctx context.Context, spec CommandSpec, stdout, stderr io.Writer) (int, error)
}
