package aws

import (
	"fmt"

	awseks "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/eks"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const ebsCSIAddon = "aws-ebs-csi-driver"

// provisionAddons declares the EKS add-ons that are not installed by
// default. VPC CNI, CoreDNS and kube-proxy ship with every EKS cluster, so
// their toggles are recorded in the config only.
func (b *builder) provisionAddons() error {
	if !b.cfg.AWS.EnableAddons.EBSCSIDriver {
		return nil
	}

	name := fmt.Sprintf("%s-%s", b.cfg.ClusterName, ebsCSIAddon)
	_, err := awseks.NewAddon(b.ctx.Pulumi, name, &awseks.AddonArgs{
		ClusterName: pulumi.String(b.cfg.ClusterName),
		AddonName:   pulumi.String(ebsCSIAddon),
		Tags:        pulumi.ToStringMap(b.cfg.Tags),
	}, pulumi.DependsOn([]pulumi.Resource{b.cluster}))
	if err != nil {
		return fmt.Errorf("failed to declare %s add-on: %w", ebsCSIAddon, err)
	}
	b.ctx.Declared("eks_addon", name)
	return nil
}
