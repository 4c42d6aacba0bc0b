package aws

import (
	"fmt"

	awseks "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/eks"
	"github.com/pulumi/pulumi-eks/sdk/v3/go/eks"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/util/labels"
)

// provisionNodeGroups declares one managed node group per pool after the
// first.
func (b *builder) provisionNodeGroups() error {
	for _, pool := range b.cfg.AdditionalPools() {
		name := fmt.Sprintf("%s-%s", b.cfg.ClusterName, pool.Name)

		_, err := eks.NewManagedNodeGroup(b.ctx.Pulumi, name, &eks.ManagedNodeGroupArgs{
			Cluster:       b.cluster,
			NodeGroupName: pulumi.StringPtr(pool.Name),
			InstanceTypes: pulumi.StringArray{
				pulumi.String(config.MachineType(config.ProviderAWS, pool.InstanceSize)),
			},
			ScalingConfig: &awseks.NodeGroupScalingConfigArgs{
				DesiredSize: pulumi.Int(pool.DesiredSize),
				MinSize:     pulumi.Int(pool.MinSize),
				MaxSize:     pulumi.Int(pool.MaxSize),
			},
			DiskSize: pulumi.IntPtr(pool.DiskSizeGB),
			Labels:   pulumi.ToStringMap(pool.Labels),
			Taints:   nodeGroupTaints(pool.Taints),
			NodeRole: b.nodeRole,
			Tags:     pulumi.ToStringMap(labels.From(b.cfg.Tags).With(labels.KeyName, name).Build()),
		})
		if err != nil {
			return fmt.Errorf("failed to declare node group %s: %w", pool.Name, err)
		}
		b.ctx.Declared("node_pool", name)
	}
	return nil
}

func nodeGroupTaints(taints []config.NodeTaint) awseks.NodeGroupTaintArray {
	out := make(awseks.NodeGroupTaintArray, 0, len(taints))
	for _, t := range taints {
		out = append(out, &awseks.NodeGroupTaintArgs{
			Key:    pulumi.String(t.Key),
			Value:  pulumi.StringPtr(t.Value),
			Effect: pulumi.String(t.Effect.Token()),
		})
	}
	return out
}
