package cli

import (
	"github.com/spf13/cobra"

	"github.com/dataset-analyzer/buildpipe/internal/core/services"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the full build pipeline",
	Long: `Runs the full build pipeline: install dependencies, provision the
staticfiles and media directories, check the framework configuration,
apply database migrations, and collect static assets clearing any
previously collected output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPipeline(cmd, services.PipelineNameBuild)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
