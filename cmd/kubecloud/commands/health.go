package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/kubecloud/cmd/kubecloud/handlers"
)

// Health returns the command for checking the cluster.
//
// Optional flags:
//
//	--wait: Poll until a node is Ready or the duration expires
func Health() *cobra.Command {
	var (
		opts handlers.Options
		wait time.Duration
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show API server version and node readiness",
		Long: `Connect to the cluster with the kubeconfig from the stack outputs
and report the server version and the Ready state of every node.

Exits non-zero when no node exists or any node is not Ready.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Health(cmd.Context(), opts, wait)
		},
	}
	bindStackFlags(cmd.Flags(), &opts)
	cmd.Flags().DurationVar(&wait, "wait", 0, "Wait up to this long for a Ready node")

	return cmd
}
