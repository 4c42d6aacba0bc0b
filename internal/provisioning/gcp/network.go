package gcp

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/util/naming"
)

// Secondary ranges of the cluster subnet.
const (
	PodsRangeName     = "pods"
	PodsRangeCIDR     = config.GKEPodsRangeCIDR
	ServicesRangeName = "services"
	ServicesRangeCIDR = config.GKEServicesRangeCIDR
)

// provisionNetwork declares the custom-mode VPC, the cluster subnet and a
// Cloud NAT for outbound traffic from nodes without external addresses.
func (b *builder) provisionNetwork() error {
	pctx := b.ctx.Pulumi
	cluster := b.cfg.ClusterName
	project := pulumi.String(b.gcp.ProjectID)
	region := pulumi.String(b.cfg.Region)

	var err error
	b.network, err = compute.NewNetwork(pctx, naming.VPC(cluster), &compute.NetworkArgs{
		Name:                  pulumi.String(naming.VPC(cluster)),
		AutoCreateSubnetworks: pulumi.Bool(false),
		Project:               project,
	})
	if err != nil {
		return fmt.Errorf("failed to declare network: %w", err)
	}
	b.ctx.Declared("vpc", naming.VPC(cluster))

	// Only the first private range is used; preflight warns about the rest.
	b.subnet, err = compute.NewSubnetwork(pctx, naming.Subnet(cluster), &compute.SubnetworkArgs{
		Name:                  pulumi.String(naming.Subnet(cluster)),
		Network:               b.network.ID(),
		IpCidrRange:           pulumi.String(b.cfg.Network.PrivateSubnetCIDRs[0]),
		Region:                region,
		Project:               project,
		PrivateIpGoogleAccess: pulumi.Bool(true),
		SecondaryIpRanges: compute.SubnetworkSecondaryIpRangeArray{
			&compute.SubnetworkSecondaryIpRangeArgs{
				RangeName:   pulumi.String(PodsRangeName),
				IpCidrRange: pulumi.String(PodsRangeCIDR),
			},
			&compute.SubnetworkSecondaryIpRangeArgs{
				RangeName:   pulumi.String(ServicesRangeName),
				IpCidrRange: pulumi.String(ServicesRangeCIDR),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to declare subnetwork: %w", err)
	}
	b.ctx.Declared("subnet", naming.Subnet(cluster))

	router, err := compute.NewRouter(pctx, naming.Router(cluster), &compute.RouterArgs{
		Name:    pulumi.String(naming.Router(cluster)),
		Network: b.network.ID(),
		Region:  region,
		Project: project,
	})
	if err != nil {
		return fmt.Errorf("failed to declare router: %w", err)
	}
	b.ctx.Declared("router", naming.Router(cluster))

	_, err = compute.NewRouterNat(pctx, naming.NAT(cluster), &compute.RouterNatArgs{
		Name:                          pulumi.String(naming.NAT(cluster)),
		Router:                        router.Name,
		Region:                        region,
		Project:                       project,
		NatIpAllocateOption:           pulumi.String("AUTO_ONLY"),
		SourceSubnetworkIpRangesToNat: pulumi.String("ALL_SUBNETWORKS_ALL_IP_RANGES"),
	})
	if err != nil {
		return fmt.Errorf("failed to declare cloud NAT: %w", err)
	}
	b.ctx.Declared("nat_gateway", naming.NAT(cluster))
	return nil
}
