package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubecloud/cmd/kubecloud/handlers"
)

// Config returns the command that prints the resolved configuration.
func Config() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the validated configuration with defaults applied",
		Long: `Resolve the settings file and KUBECLOUD_* environment variables,
apply every default and print the resulting configuration as YAML.

Configuration errors are reported here exactly as 'up' would report them.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Config(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to settings file (default: kubecloud.yaml)")

	return cmd
}
