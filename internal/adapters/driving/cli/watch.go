package cli

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
	"github.com/dataset-analyzer/buildpipe/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <pipeline>",
	Short: "Re-run a pipeline when the dependency manifest changes",
	Long: `Runs the named pipeline once, then watches the dependency manifest
and re-runs the pipeline whenever it changes. A failing run does not stop
the watch; interrupt with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureRunner(cmd); err != nil {
		return err
	}
	name := args[0]

	execute := func(ctx context.Context) {
		if _, err := pipelineRunner.Run(ctx, name); err != nil {
			cmd.PrintErrln(failureText("Pipeline " + name + " failed: " + err.Error()))
			return
		}
		cmd.Println(successText("Pipeline " + name + " completed successfully!"))
	}

	// First run validates the pipeline name before we settle in to watch.
	if _, err := pipelineRunner.Run(cmd.Context(), name); err != nil {
		if errors.Is(err, domain.ErrPipelineUnknown) {
			return err
		}
		cmd.PrintErrln(failureText("Pipeline " + name + " failed: " + err.Error()))
	} else {
		cmd.Println(successText("Pipeline " + name + " completed successfully!"))
	}

	manifest := projectManifest
	if !filepath.IsAbs(manifest) && flagDir != "" {
		manifest = filepath.Join(flagDir, manifest)
	}

	w, err := watcher.New(manifest, execute)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s for changes...\n", manifest)
	return w.Run(cmd.Context())
}
