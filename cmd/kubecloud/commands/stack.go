package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubecloud/cmd/kubecloud/handlers"
)

// Preview returns the command that shows pending changes.
func Preview() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the changes 'up' would make",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Preview(cmd.Context(), opts)
		},
	}
	bindStackFlags(cmd.Flags(), &opts)

	return cmd
}

// Up returns the command that creates or updates the cluster.
//
// Cloud credentials are read from each provider's standard environment
// (AWS_PROFILE, GOOGLE_APPLICATION_CREDENTIALS, ARM_* ...). Non-cloud state
// backends need PULUMI_CONFIG_PASSPHRASE to encrypt the kubeconfig output.
func Up() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update the cluster",
		Long: `Create or update the cluster and its network.

The settings are validated locally, pushed into the stack configuration
and the cluster program runs in-process.

Examples:
  # Use kubecloud.yaml in the current directory
  kubecloud up

  # Keep state in S3; the bucket is created when missing
  kubecloud up --backend s3://my-state-bucket`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), opts)
		},
	}
	bindStackFlags(cmd.Flags(), &opts)

	return cmd
}

// Destroy returns the command that removes the cluster.
func Destroy() *cobra.Command {
	var opts handlers.Options

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the cluster and all associated resources",
		Long: `Destroy removes every resource of the stack: node pools, the
cluster, and the network it runs in.

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}
	bindStackFlags(cmd.Flags(), &opts)

	return cmd
}
