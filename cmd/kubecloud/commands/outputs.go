package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kubecloud/cmd/kubecloud/handlers"
)

// Outputs returns the command that prints the stack outputs.
func Outputs() *cobra.Command {
	var (
		opts           handlers.Options
		kubeconfigPath string
		showSecrets    bool
	)

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the cluster outputs",
		Long: `Print clusterName, clusterEndpoint, clusterId and the other stack
outputs. The kubeconfig is masked unless --show-secrets is given.

Example:
  kubecloud outputs --kubeconfig ~/.kube/kubecloud-dev`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), opts, kubeconfigPath, showSecrets)
		},
	}
	bindStackFlags(cmd.Flags(), &opts)
	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Write the kubeconfig to this path (mode 0600)")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secret outputs in plaintext")

	return cmd
}
