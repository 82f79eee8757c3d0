package cli

import (
	"github.com/spf13/cobra"
)

var pipelinesCmd = &cobra.Command{
	Use:   "pipelines",
	Short: "List configured pipelines",
	Args:  cobra.NoArgs,
	RunE:  runPipelines,
}

func init() {
	rootCmd.AddCommand(pipelinesCmd)
}

func runPipelines(cmd *cobra.Command, _ []string) error {
	if err := ensureRunner(cmd); err != nil {
		return err
	}

	for _, p := range pipelineRunner.Pipelines() {
		cmd.Printf("%s - %s\n", p.Name, p.Description)
		for i, step := range p.Steps {
			cmd.Printf("  %d. %s\n", i+1, step.DisplayName())
		}
		cmd.Println()
	}
	return nil
}
