package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubecloud/cmd/kubecloud/handlers"
	"github.com/imamik/kubecloud/internal/settings"
)

// Init returns the command for interactively creating a settings file.
//
// Flags:
//
//	--output, -o: Path to output file (default "kubecloud.yaml")
//	--force, -f: Overwrite an existing file without asking
func Init() *cobra.Command {
	var (
		outputPath string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a settings file",
		Long: `Interactively create a kubecloud settings file.

The wizard asks for:

  - Cloud provider, project name and environment
  - Region and Kubernetes version
  - Provider options (private endpoint, GCP project, Azure resource group)
  - Size of the default node pool

The answers are validated before the file is written.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, force)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", settings.DefaultFile, "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file without asking")

	return cmd
}
