package cli

import (
	"github.com/spf13/cobra"

	"github.com/dataset-analyzer/buildpipe/internal/core/services"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run the deploy pipeline",
	Long: `Runs the deploy pipeline: install dependencies, collect static
assets without clearing previous output, and apply database migrations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd, services.PipelineNameDeploy)
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
