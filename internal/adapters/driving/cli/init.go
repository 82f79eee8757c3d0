package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dataset-analyzer/buildpipe/internal/adapters/driven/config/file"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Writes a commented buildpipe.toml into the project directory.
Refuses to overwrite an existing file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir := flagDir
		if dir == "" {
			dir = "."
		}
		path := filepath.Join(dir, file.FileName)
		if err := file.WriteStarter(path); err != nil {
			return err
		}
		cmd.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
