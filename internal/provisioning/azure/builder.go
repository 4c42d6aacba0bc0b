package azure

import (
	"github.com/pulumi/pulumi-azure-native-sdk/containerservice/v2"
	"github.com/pulumi/pulumi-azure-native-sdk/managedidentity/v2"
	"github.com/pulumi/pulumi-azure-native-sdk/network/v2"
	"github.com/pulumi/pulumi-azure-native-sdk/resources/v2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/provisioning"
)

// Topology returns the Azure topology. The first pool is embedded in the
// managed cluster as its system pool.
func Topology() provisioning.Topology {
	return provisioning.Topology{
		Provider:      config.ProviderAzure,
		FoldFirstPool: true,
		Build:         Build,
	}
}

type builder struct {
	ctx   *provisioning.Context
	cfg   *config.ClusterConfig
	azure *config.AzureConfig

	group    *resources.ResourceGroup
	vnet     *network.VirtualNetwork
	subnet   *network.Subnet
	identity *managedidentity.UserAssignedIdentity
	cluster  *containerservice.ManagedCluster
}

// Build declares the Azure resource graph for ctx.Config.
func Build(ctx *provisioning.Context) (*provisioning.ClusterOutput, error) {
	if ctx.Config.Azure == nil {
		return nil, provisioning.MissingBlockError(config.ProviderAzure)
	}
	b := &builder{ctx: ctx, cfg: ctx.Config, azure: ctx.Config.Azure}

	if err := b.provisionNetwork(); err != nil {
		return nil, err
	}
	if err := b.provisionIdentity(); err != nil {
		return nil, err
	}
	if err := b.provisionCluster(); err != nil {
		return nil, err
	}
	if err := b.provisionAgentPools(); err != nil {
		return nil, err
	}

	return b.output(), nil
}

func (b *builder) output() *provisioning.ClusterOutput {
	creds := containerservice.ListManagedClusterUserCredentialsOutput(b.ctx.Pulumi,
		containerservice.ListManagedClusterUserCredentialsOutputArgs{
			ResourceGroupName: b.group.Name,
			ResourceName:      b.cluster.Name,
		})

	return &provisioning.ClusterOutput{
		ClusterName: b.cluster.Name,
		Kubeconfig:  creds.Kubeconfigs().ApplyT(b.decodeCredentials).(pulumi.StringOutput),
		Endpoint: b.cluster.Fqdn.ApplyT(func(fqdn string) string {
			return "https://" + fqdn
		}).(pulumi.StringOutput),
		ClusterID: b.cluster.ID().ToStringOutput(),
	}
}
