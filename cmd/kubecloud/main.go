// Package main is the entry point for the kubecloud CLI.
//
// kubecloud provisions a managed Kubernetes cluster with its network on
// AWS (EKS), GCP (GKE) or Azure (AKS) from one provider-neutral settings
// file. It drives the Pulumi engine in-process, so no separate program
// checkout is needed.
//
// Commands: init, config, preview, up, destroy, outputs, health, version.
//
// For detailed usage information, run:
//
//	kubecloud --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/kubecloud/cmd/kubecloud/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
