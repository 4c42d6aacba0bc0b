package gcp

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/container"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
)

const (
	diskType           = "pd-standard"
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	gkeMetadataMode    = "GKE_METADATA"
)

// provisionNodePools declares one node pool per configured pool.
func (b *builder) provisionNodePools() error {
	for _, pool := range b.cfg.NodePools {
		name := fmt.Sprintf("%s-%s", b.cfg.ClusterName, pool.Name)

		_, err := container.NewNodePool(b.ctx.Pulumi, name, &container.NodePoolArgs{
			Name:     pulumi.String(pool.Name),
			Cluster:  b.cluster.Name,
			Location: pulumi.String(b.location),
			Project:  pulumi.String(b.gcp.ProjectID),

			// The autoscaler owns the node count after creation.
			InitialNodeCount: pulumi.Int(pool.DesiredSize),
			Autoscaling: &container.NodePoolAutoscalingArgs{
				MinNodeCount: pulumi.Int(pool.MinSize),
				MaxNodeCount: pulumi.Int(pool.MaxSize),
			},

			NodeConfig: b.nodeConfig(pool),
			Management: &container.NodePoolManagementArgs{
				AutoRepair:  pulumi.Bool(true),
				AutoUpgrade: pulumi.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("failed to declare node pool %s: %w", pool.Name, err)
		}
		b.ctx.Declared("node_pool", name)
	}
	return nil
}

func (b *builder) nodeConfig(pool config.NodePoolConfig) *container.NodePoolNodeConfigArgs {
	nc := &container.NodePoolNodeConfigArgs{
		MachineType: pulumi.String(config.MachineType(config.ProviderGCP, pool.InstanceSize)),
		DiskSizeGb:  pulumi.Int(pool.DiskSizeGB),
		DiskType:    pulumi.String(diskType),
		OauthScopes: pulumi.StringArray{pulumi.String(cloudPlatformScope)},
		Labels:      pulumi.ToStringMap(pool.Labels),
		Taints:      nodeTaints(pool.Taints),
		ShieldedInstanceConfig: &container.NodePoolNodeConfigShieldedInstanceConfigArgs{
			EnableSecureBoot:          pulumi.Bool(true),
			EnableIntegrityMonitoring: pulumi.Bool(true),
		},
	}
	if b.gcp.EnableWorkloadIdentity {
		nc.WorkloadMetadataConfig = &container.NodePoolNodeConfigWorkloadMetadataConfigArgs{
			Mode: pulumi.String(gkeMetadataMode),
		}
	}
	return nc
}

func nodeTaints(taints []config.NodeTaint) container.NodePoolNodeConfigTaintArray {
	out := make(container.NodePoolNodeConfigTaintArray, 0, len(taints))
	for _, t := range taints {
		out = append(out, &container.NodePoolNodeConfigTaintArgs{
			Key:    pulumi.String(t.Key),
			Value:  pulumi.String(t.Value),
			Effect: pulumi.String(t.Effect.Token()),
		})
	}
	return out
}
