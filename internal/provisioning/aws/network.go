package aws

import (
	"fmt"

	pulumiaws "github.com/pulumi/pulumi-aws/sdk/v6/go/aws"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/ec2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/util/labels"
	"github.com/imamik/kubecloud/internal/util/naming"
)

const (
	anyIPv4  = "0.0.0.0/0"
	eipInVPC = "vpc"
)

// provisionNetwork declares the VPC, gateways, subnets and routing.
func (b *builder) provisionNetwork() error {
	pctx := b.ctx.Pulumi
	cluster := b.cfg.ClusterName
	network := b.cfg.Network

	if len(network.PublicSubnetCIDRs) == 0 {
		return fmt.Errorf("aws builder: at least one public subnet is required for the NAT gateway")
	}

	zones := pulumiaws.GetAvailabilityZonesOutput(pctx, pulumiaws.GetAvailabilityZonesOutputArgs{
		State: pulumi.String("available"),
	})

	var err error
	b.vpc, err = ec2.NewVpc(pctx, naming.VPC(cluster), &ec2.VpcArgs{
		CidrBlock:          pulumi.String(network.VPCCIDR),
		EnableDnsHostnames: pulumi.Bool(true),
		EnableDnsSupport:   pulumi.Bool(true),
		Tags:               b.tags(naming.VPC(cluster)),
	})
	if err != nil {
		return fmt.Errorf("failed to declare VPC: %w", err)
	}
	b.ctx.Declared("vpc", naming.VPC(cluster))

	b.igw, err = ec2.NewInternetGateway(pctx, naming.InternetGateway(cluster), &ec2.InternetGatewayArgs{
		VpcId: b.vpc.ID(),
		Tags:  b.tags(naming.InternetGateway(cluster)),
	})
	if err != nil {
		return fmt.Errorf("failed to declare internet gateway: %w", err)
	}
	b.ctx.Declared("internet_gateway", naming.InternetGateway(cluster))

	for i, cidr := range network.PublicSubnetCIDRs {
		name := naming.PublicSubnet(cluster, i)
		subnet, err := ec2.NewSubnet(pctx, name, &ec2.SubnetArgs{
			VpcId:               b.vpc.ID(),
			CidrBlock:           pulumi.String(cidr),
			AvailabilityZone:    zoneFor(zones, i),
			MapPublicIpOnLaunch: pulumi.Bool(true),
			Tags:                b.subnetTags(name, labels.KeyELBRole),
		})
		if err != nil {
			return fmt.Errorf("failed to declare public subnet %d: %w", i, err)
		}
		b.ctx.Declared("subnet", name)
		b.publicSubnets = append(b.publicSubnets, subnet)
	}

	for i, cidr := range network.PrivateSubnetCIDRs {
		name := naming.PrivateSubnet(cluster, i)
		subnet, err := ec2.NewSubnet(pctx, name, &ec2.SubnetArgs{
			VpcId:            b.vpc.ID(),
			CidrBlock:        pulumi.String(cidr),
			AvailabilityZone: zoneFor(zones, i),
			Tags:             b.subnetTags(name, labels.KeyInternalELBRole),
		})
		if err != nil {
			return fmt.Errorf("failed to declare private subnet %d: %w", i, err)
		}
		b.ctx.Declared("subnet", name)
		b.privateSubnets = append(b.privateSubnets, subnet)
	}

	eip, err := ec2.NewEip(pctx, naming.NATElasticIP(cluster), &ec2.EipArgs{
		Domain: pulumi.String(eipInVPC),
		Tags:   b.tags(naming.NATElasticIP(cluster)),
	})
	if err != nil {
		return fmt.Errorf("failed to declare NAT elastic IP: %w", err)
	}
	b.ctx.Declared("elastic_ip", naming.NATElasticIP(cluster))

	// The NAT gateway needs a routable internet gateway before it can come up.
	b.nat, err = ec2.NewNatGateway(pctx, naming.NAT(cluster), &ec2.NatGatewayArgs{
		AllocationId: eip.ID(),
		SubnetId:     b.publicSubnets[0].ID(),
		Tags:         b.tags(naming.NAT(cluster)),
	}, pulumi.DependsOn([]pulumi.Resource{b.igw}))
	if err != nil {
		return fmt.Errorf("failed to declare NAT gateway: %w", err)
	}
	b.ctx.Declared("nat_gateway", naming.NAT(cluster))

	publicRT, err := b.routeTable("public", &ec2.RouteTableRouteArgs{
		CidrBlock: pulumi.String(anyIPv4),
		GatewayId: b.igw.ID(),
	})
	if err != nil {
		return err
	}
	privateRT, err := b.routeTable("private", &ec2.RouteTableRouteArgs{
		CidrBlock:    pulumi.String(anyIPv4),
		NatGatewayId: b.nat.ID(),
	})
	if err != nil {
		return err
	}

	if err := b.associate(publicRT, "public", b.publicSubnets); err != nil {
		return err
	}
	return b.associate(privateRT, "private", b.privateSubnets)
}

func (b *builder) routeTable(tier string, route *ec2.RouteTableRouteArgs) (*ec2.RouteTable, error) {
	name := naming.RouteTable(b.cfg.ClusterName, tier)
	rt, err := ec2.NewRouteTable(b.ctx.Pulumi, name, &ec2.RouteTableArgs{
		VpcId:  b.vpc.ID(),
		Routes: ec2.RouteTableRouteArray{route},
		Tags:   b.tags(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to declare %s route table: %w", tier, err)
	}
	b.ctx.Declared("route_table", name)
	return rt, nil
}

func (b *builder) associate(rt *ec2.RouteTable, tier string, subnets []*ec2.Subnet) error {
	for i, subnet := range subnets {
		name := naming.RouteTableAssociation(b.cfg.ClusterName, tier, i)
		_, err := ec2.NewRouteTableAssociation(b.ctx.Pulumi, name, &ec2.RouteTableAssociationArgs{
			SubnetId:     subnet.ID(),
			RouteTableId: rt.ID(),
		})
		if err != nil {
			return fmt.Errorf("failed to associate %s subnet %d: %w", tier, i, err)
		}
		b.ctx.Declared("route_table_association", name)
	}
	return nil
}

// zoneFor assigns zones round-robin by subnet index.
func zoneFor(zones pulumiaws.GetAvailabilityZonesResultOutput, index int) pulumi.StringOutput {
	return zones.Names().ApplyT(func(names []string) (string, error) {
		if len(names) == 0 {
			return "", fmt.Errorf("no availability zones available")
		}
		return names[index%len(names)], nil
	}).(pulumi.StringOutput)
}

func (b *builder) tags(name string) pulumi.StringMap {
	return pulumi.ToStringMap(labels.From(b.cfg.Tags).With(labels.KeyName, name).Build())
}

func (b *builder) subnetTags(name, roleKey string) pulumi.StringMap {
	return pulumi.ToStringMap(labels.From(b.cfg.Tags).
		With(labels.KeyName, name).
		With(roleKey, "1").
		With(labels.ClusterKey(b.cfg.ClusterName), labels.ClusterShared).
		Build())
}
