// Package main is the Pulumi program entry point used by Pulumi.yaml, for
// running the cluster program with the pulumi CLI directly.
package main

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/orchestration"
)

func main() {
	pulumi.Run(orchestration.Run)
}
