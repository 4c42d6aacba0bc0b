package azure

import (
	"fmt"

	"github.com/pulumi/pulumi-azure-native-sdk/containerservice/v2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/util/naming"
)

// provisionAgentPools declares a user-mode agent pool for every pool after
// the first, all on the cluster subnet.
func (b *builder) provisionAgentPools() error {
	for _, pool := range b.cfg.AdditionalPools() {
		poolName := naming.AzurePoolName(pool.Name)
		name := fmt.Sprintf("%s-%s", b.cfg.ClusterName, poolName)

		_, err := containerservice.NewAgentPool(b.ctx.Pulumi, name, &containerservice.AgentPoolArgs{
			AgentPoolName:     pulumi.String(poolName),
			ResourceGroupName: b.group.Name,
			ResourceName:      b.cluster.Name,
			Mode:              pulumi.String("User"),
			Count:             pulumi.Int(pool.DesiredSize),
			MinCount:          pulumi.Int(pool.MinSize),
			MaxCount:          pulumi.Int(pool.MaxSize),
			EnableAutoScaling: pulumi.Bool(true),
			VmSize:            pulumi.String(config.MachineType(config.ProviderAzure, pool.InstanceSize)),
			OsDiskSizeGB:      pulumi.Int(pool.DiskSizeGB),
			OsType:            pulumi.String("Linux"),
			VnetSubnetID:      b.subnet.ID().ToStringOutput(),
			NodeLabels:        pulumi.ToStringMap(pool.Labels),
			NodeTaints:        nodeTaints(pool.Taints),
		})
		if err != nil {
			return fmt.Errorf("failed to declare agent pool %s: %w", poolName, err)
		}
		b.ctx.Declared("node_pool", name)
	}
	return nil
}
