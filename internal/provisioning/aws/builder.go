package aws

import (
	awseks "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/eks"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/iam"
	"github.com/pulumi/pulumi-eks/sdk/v3/go/eks"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/kubeconfig"
	"github.com/imamik/kubecloud/internal/provisioning"
)

// Topology returns the AWS topology. The first pool is folded into the EKS
// cluster as its default node group.
func Topology() provisioning.Topology {
	return provisioning.Topology{
		Provider:      config.ProviderAWS,
		FoldFirstPool: true,
		Build:         Build,
	}
}

// builder carries the resources declared so far to the later steps.
type builder struct {
	ctx *provisioning.Context
	cfg *config.ClusterConfig

	vpc            *ec2.Vpc
	igw            *ec2.InternetGateway
	publicSubnets  []*ec2.Subnet
	privateSubnets []*ec2.Subnet
	nat            *ec2.NatGateway
	nodeRole       *iam.Role
	cluster        *eks.Cluster
}

// Build declares the AWS resource graph for ctx.Config.
func Build(ctx *provisioning.Context) (*provisioning.ClusterOutput, error) {
	if ctx.Config.AWS == nil {
		return nil, provisioning.MissingBlockError(config.ProviderAWS)
	}
	b := &builder{ctx: ctx, cfg: ctx.Config}

	// 1. Network
	if err := b.provisionNetwork(); err != nil {
		return nil, err
	}

	// 2. Node IAM role
	if err := b.provisionNodeRole(); err != nil {
		return nil, err
	}

	// 3. Control plane with the default node group
	if err := b.provisionCluster(); err != nil {
		return nil, err
	}

	// 4. Additional managed node groups
	if err := b.provisionNodeGroups(); err != nil {
		return nil, err
	}

	// 5. Add-ons
	if err := b.provisionAddons(); err != nil {
		return nil, err
	}

	return b.output(), nil
}

func (b *builder) output() *provisioning.ClusterOutput {
	kubecfg := b.cluster.KubeconfigJson.ApplyT(kubeconfig.FromJSON).(pulumi.StringOutput)

	endpoint := b.cluster.EksCluster.ApplyT(func(c *awseks.Cluster) pulumi.StringOutput {
		if c == nil {
			return pulumi.String("").ToStringOutput()
		}
		return c.Endpoint
	}).(pulumi.StringOutput)

	clusterID := b.cluster.EksCluster.ApplyT(func(c *awseks.Cluster) pulumi.StringOutput {
		if c == nil {
			return pulumi.String("").ToStringOutput()
		}
		return c.ID().ToStringOutput()
	}).(pulumi.StringOutput)

	return &provisioning.ClusterOutput{
		ClusterName: pulumi.String(b.cfg.ClusterName).ToStringOutput(),
		Kubeconfig:  kubecfg,
		Endpoint:    endpoint,
		ClusterID:   clusterID,
	}
}
