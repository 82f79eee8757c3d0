package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <pipeline>",
	Short: "Run a configured pipeline by name",
	Long: `Runs any configured pipeline: a built-in one (build, deploy) or a
custom pipeline defined in the configuration file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runPipeline executes the named pipeline and prints the outcome banner.
// The returned error carries the failing step's exit code for main.
func runPipeline(cmd *cobra.Command, name string) error {
	if err := ensureRunner(cmd); err != nil {
		return err
	}

	run, err := pipelineRunner.Run(cmd.Context(), name)
	if err != nil {
		return err
	}

	cmd.Println(successText(fmt.Sprintf("Pipeline %s completed successfully!", name)))
	cmd.Println(faintText(fmt.Sprintf("%d steps in %s (run %s)",
		len(run.Steps), run.Duration().Round(10*time.Millisecond), shortID(run.ID))))
	return nil
}

// shortID abbreviates a run ID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
