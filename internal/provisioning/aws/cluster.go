package aws

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-eks/sdk/v3/go/eks"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
)

// provisionCluster declares the EKS control plane. The first node pool
// becomes the cluster's default node group.
func (b *builder) provisionCluster() error {
	pool := b.cfg.DefaultPool()

	var err error
	b.cluster, err = eks.NewCluster(b.ctx.Pulumi, b.cfg.ClusterName, &eks.ClusterArgs{
		Name:                  pulumi.StringPtr(b.cfg.ClusterName),
		Version:               pulumi.StringPtr(b.cfg.KubernetesVersion),
		VpcId:                 b.vpc.ID().ToStringOutput(),
		PrivateSubnetIds:      subnetIDs(b.privateSubnets),
		PublicSubnetIds:       subnetIDs(b.publicSubnets),
		InstanceType:          pulumi.StringPtr(config.MachineType(config.ProviderAWS, pool.InstanceSize)),
		DesiredCapacity:       pulumi.IntPtr(pool.DesiredSize),
		MinSize:               pulumi.IntPtr(pool.MinSize),
		MaxSize:               pulumi.IntPtr(pool.MaxSize),
		NodeRootVolumeSize:    pulumi.IntPtr(pool.DiskSizeGB),
		EndpointPrivateAccess: pulumi.BoolPtr(b.cfg.AWS.PrivateCluster),
		EndpointPublicAccess:  pulumi.BoolPtr(true),
		InstanceRole:          b.nodeRole,
		Tags:                  pulumi.ToStringMap(b.cfg.Tags),
	}, pulumi.DependsOn([]pulumi.Resource{b.nat}))
	if err != nil {
		return fmt.Errorf("failed to declare EKS cluster: %w", err)
	}
	b.ctx.Declared("eks_cluster", b.cfg.ClusterName)
	return nil
}

func subnetIDs(subnets []*ec2.Subnet) pulumi.StringArray {
	ids := make(pulumi.StringArray, 0, len(subnets))
	for _, s := range subnets {
		ids = append(ids, s.ID().ToStringOutput())
	}
	return ids
}
