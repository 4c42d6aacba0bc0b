// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/kubecloud/cmd/kubecloud/handlers"
)

// Root returns the root command for the kubecloud CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kubecloud",
		Short:         "Provision managed Kubernetes on AWS, GCP or Azure",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Init())
	cmd.AddCommand(Config())
	cmd.AddCommand(Preview())
	cmd.AddCommand(Up())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Outputs())
	cmd.AddCommand(Health())
	cmd.AddCommand(Version())

	return cmd
}

// bindStackFlags registers the flags shared by every stack command.
func bindStackFlags(fs *pflag.FlagSet, opts *handlers.Options) {
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to settings file (default: kubecloud.yaml)")
	fs.StringVarP(&opts.Stack, "stack", "s", "", "Stack name (default: the environment setting)")
	fs.StringVar(&opts.Backend, "backend", "", "State backend URL, e.g. s3://bucket or file://~/.pulumi")
	fs.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics in textfile format to this path")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")
}
