// Package cli implements the buildpipe command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dataset-analyzer/buildpipe/internal/adapters/driven/config/file"
	"github.com/dataset-analyzer/buildpipe/internal/adapters/driven/execrunner"
	"github.com/dataset-analyzer/buildpipe/internal/adapters/driven/storage/memory"
	"github.com/dataset-analyzer/buildpipe/internal/adapters/driven/storage/sqlite"
	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driven"
	"github.com/dataset-analyzer/buildpipe/internal/core/ports/driving"
	"github.com/dataset-analyzer/buildpipe/internal/core/services"
	"github.com/dataset-analyzer/buildpipe/internal/logger"
)

// version is set by Execute from the build's main package.
var version = "dev"

var (
	flagVerbose   bool
	flagConfig    string
	flagDir       string
	flagNoHistory bool
)

// pipelineRunner is the wired driving port. Populated lazily on first
// use; tests inject their own via SetRunner.
var pipelineRunner driving.PipelineRunner

// projectManifest is the dependency manifest path the watch command
// observes. Set during wiring.
var projectManifest string

// storeCloser closes the history database on exit, when one was opened.
var storeCloser func() error

var rootCmd = &cobra.Command{
	Use:   "buildpipe",
	Short: "Build and deploy pipelines for the Dataset Analyzer backend",
	Long: `buildpipe orchestrates the Dataset Analyzer backend's build steps:
dependency installation, runtime directory provisioning, framework
configuration checks, database migrations, and static asset collection.

Pipelines run strictly in order and abort at the first failing step; the
process exit code equals the failing step's exit code.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to configuration file (default: buildpipe.toml, then ~/.buildpipe/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "C", "",
		"project directory to run in (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false,
		"do not record this run in the history database")
}

// Execute runs the CLI and returns the process exit code.
// A failing pipeline step maps to that step's exit code; any other error
// maps to 1.
func Execute(v string) int {
	version = v

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeStore()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), failureText("Error: "+err.Error()))

		var stepErr *domain.StepError
		if errors.As(err, &stepErr) && stepErr.ExitCode != 0 {
			return stepErr.ExitCode
		}
		return 1
	}
	return 0
}

// SetRunner injects the pipeline runner, bypassing the default wiring.
// Tests use it to substitute mocks.
func SetRunner(r driving.PipelineRunner) {
	pipelineRunner = r
}

// ensureRunner wires the default adapters on first use: config discovery,
// command runner, run store, and the pipeline set.
func ensureRunner(cmd *cobra.Command) error {
	if pipelineRunner != nil {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Path() != "" {
		logger.Debug("using config %s", cfg.Path())
	}

	project := services.ProjectConfig{
		Python:   cfg.Project.Python,
		Pip:      cfg.Project.Pip,
		Manage:   cfg.Project.Manage,
		Manifest: cfg.Project.Manifest,
		Dirs:     cfg.Project.Dirs,
	}
	projectManifest = project.Manifest
	if projectManifest == "" {
		projectManifest = services.DefaultProjectConfig().Manifest
	}

	pipelines := services.DefaultPipelines(project)
	custom, err := cfg.CustomPipelines()
	if err != nil {
		return err
	}
	pipelines = append(pipelines, custom...)

	store, err := openStore()
	if err != nil {
		return err
	}

	runner, err := services.NewRunner(services.RunnerConfig{
		Out:         cmd.OutOrStdout(),
		ErrOut:      cmd.ErrOrStderr(),
		Dir:         flagDir,
		HistoryKeep: cfg.HistoryKeep(),
	}, execrunner.New(), store, pipelines...)
	if err != nil {
		return err
	}

	pipelineRunner = runner
	return nil
}

// loadConfig honours --config, falling back to discovery in the project
// directory.
func loadConfig() (*file.Config, error) {
	if flagConfig != "" {
		return file.Load(flagConfig)
	}
	dir := flagDir
	if dir == "" {
		dir = "."
	}
	return file.Discover(dir)
}

// openStore opens the history database, or an in-memory store when the
// user opted out of history.
func openStore() (driven.RunStore, error) {
	if flagNoHistory {
		return memory.NewRunStore(), nil
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	storeCloser = store.Close
	return store.RunStore(), nil
}

// closeStore closes the history database if one was opened.
func closeStore() {
	if storeCloser != nil {
		if err := storeCloser(); err != nil {
			logger.Warn("closing history database: %v", err)
		}
		storeCloser = nil
	}
}
