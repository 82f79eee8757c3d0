package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dataset-analyzer/buildpipe/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [pipeline]",
	Short: "Show recent pipeline runs",
	Long: `Shows recent pipeline runs recorded in the history database,
most recent first. With a pipeline name, only that pipeline's runs
are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20,
		"maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := ensureRunner(cmd); err != nil {
		return err
	}

	pipeline := ""
	if len(args) > 0 {
		pipeline = args[0]
	}

	runs, err := pipelineRunner.History(cmd.Context(), pipeline, historyLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPIPELINE\tSTATUS\tEXIT\tSTARTED\tDURATION\tFAILED STEP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			shortID(run.ID),
			run.Pipeline,
			run.Status,
			run.ExitCode,
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration().Round(10*time.Millisecond),
			failedStep(run),
		)
	}
	return w.Flush()
}

// failedStep names the step a failed run aborted on, if any.
func failedStep(run domain.Run) string {
	if run.Status != domain.RunStatusFailed || len(run.Steps) == 0 {
		return "-"
	}
	last := run.Steps[len(run.Steps)-1]
	if last.ExitCode == 0 && last.Error == "" {
		return "-"
	}
	return last.StepID
}
