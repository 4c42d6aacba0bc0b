package gcp

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/container"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/kubeconfig"
	"github.com/imamik/kubecloud/internal/provisioning"
	"github.com/imamik/kubecloud/internal/util/naming"
)

// Topology returns the GCP topology. Every pool is declared explicitly.
func Topology() provisioning.Topology {
	return provisioning.Topology{
		Provider:      config.ProviderGCP,
		FoldFirstPool: false,
		Build:         Build,
	}
}

type builder struct {
	ctx      *provisioning.Context
	cfg      *config.ClusterConfig
	gcp      *config.GCPConfig
	location string

	network *compute.Network
	subnet  *compute.Subnetwork
	cluster *container.Cluster
}

// Build declares the GCP resource graph for ctx.Config.
func Build(ctx *provisioning.Context) (*provisioning.ClusterOutput, error) {
	if ctx.Config.GCP == nil {
		return nil, provisioning.MissingBlockError(config.ProviderGCP)
	}
	b := &builder{
		ctx:      ctx,
		cfg:      ctx.Config,
		gcp:      ctx.Config.GCP,
		location: Location(ctx.Config.Region, ctx.Config.GCP),
	}

	if err := b.provisionNetwork(); err != nil {
		return nil, err
	}
	if err := b.provisionCluster(); err != nil {
		return nil, err
	}
	if err := b.provisionNodePools(); err != nil {
		return nil, err
	}

	return b.output(), nil
}

// Location resolves where the cluster runs: a single zone for zonal
// clusters (the override, or "<region>-b"), the bare region otherwise.
func Location(region string, gcp *config.GCPConfig) string {
	if !gcp.ZonalCluster {
		return region
	}
	if gcp.Zone != "" {
		return gcp.Zone
	}
	return region + "-b"
}

// WorkloadPool returns the Workload Identity pool of a project.
func WorkloadPool(projectID string) string {
	return projectID + ".svc.id.goog"
}

func (b *builder) output() *provisioning.ClusterOutput {
	project := b.gcp.ProjectID
	location := b.location

	kubecfg := pulumi.All(
		b.cluster.Name,
		b.cluster.Endpoint,
		b.cluster.MasterAuth.ClusterCaCertificate(),
	).ApplyT(func(args []any) (string, error) {
		name := args[0].(string)
		endpoint := args[1].(string)
		ca, _ := args[2].(*string)
		if ca == nil {
			return "", fmt.Errorf("cluster %s has no CA certificate", name)
		}
		return kubeconfig.ForGKE(kubeconfig.GKEParams{
			ContextName:   naming.GKEContext(project, location, name),
			Endpoint:      endpoint,
			CACertificate: *ca,
		})
	}).(pulumi.StringOutput)

	return &provisioning.ClusterOutput{
		ClusterName: b.cluster.Name,
		Kubeconfig:  kubecfg,
		Endpoint:    b.cluster.Endpoint.ApplyT(kubeconfig.Server).(pulumi.StringOutput),
		ClusterID:   b.cluster.ID().ToStringOutput(),
	}
}
