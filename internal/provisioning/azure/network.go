package azure

import (
	"fmt"

	"github.com/pulumi/pulumi-azure-native-sdk/managedidentity/v2"
	"github.com/pulumi/pulumi-azure-native-sdk/network/v2"
	"github.com/pulumi/pulumi-azure-native-sdk/resources/v2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/util/naming"
)

// provisionNetwork declares the resource group, the virtual network over
// the VPC range and a single node subnet.
func (b *builder) provisionNetwork() error {
	pctx := b.ctx.Pulumi
	cluster := b.cfg.ClusterName
	location := pulumi.String(b.cfg.Region)
	tags := pulumi.ToStringMap(b.cfg.Tags)

	var err error
	b.group, err = resources.NewResourceGroup(pctx, b.azure.ResourceGroupName, &resources.ResourceGroupArgs{
		ResourceGroupName: pulumi.String(b.azure.ResourceGroupName),
		Location:          location,
		Tags:              tags,
	})
	if err != nil {
		return fmt.Errorf("failed to declare resource group: %w", err)
	}
	b.ctx.Declared("resource_group", b.azure.ResourceGroupName)

	b.vnet, err = network.NewVirtualNetwork(pctx, naming.VNet(cluster), &network.VirtualNetworkArgs{
		VirtualNetworkName: pulumi.String(naming.VNet(cluster)),
		ResourceGroupName:  b.group.Name,
		Location:           location,
		AddressSpace: &network.AddressSpaceArgs{
			AddressPrefixes: pulumi.StringArray{pulumi.String(b.cfg.Network.VPCCIDR)},
		},
		Tags: tags,
	})
	if err != nil {
		return fmt.Errorf("failed to declare virtual network: %w", err)
	}
	b.ctx.Declared("vpc", naming.VNet(cluster))

	// Only the first private range is used; preflight warns about the rest.
	b.subnet, err = network.NewSubnet(pctx, naming.AKSSubnet(cluster), &network.SubnetArgs{
		SubnetName:         pulumi.String(naming.AKSSubnet(cluster)),
		ResourceGroupName:  b.group.Name,
		VirtualNetworkName: b.vnet.Name,
		AddressPrefix:      pulumi.String(b.cfg.Network.PrivateSubnetCIDRs[0]),
	})
	if err != nil {
		return fmt.Errorf("failed to declare subnet: %w", err)
	}
	b.ctx.Declared("subnet", naming.AKSSubnet(cluster))
	return nil
}

// provisionIdentity declares the user-assigned identity the control plane
// runs as.
func (b *builder) provisionIdentity() error {
	name := naming.Identity(b.cfg.ClusterName)

	var err error
	b.identity, err = managedidentity.NewUserAssignedIdentity(b.ctx.Pulumi, name, &managedidentity.UserAssignedIdentityArgs{
		ResourceName:      pulumi.String(name),
		ResourceGroupName: b.group.Name,
		Location:          pulumi.String(b.cfg.Region),
		Tags:              pulumi.ToStringMap(b.cfg.Tags),
	})
	if err != nil {
		return fmt.Errorf("failed to declare managed identity: %w", err)
	}
	b.ctx.Declared("identity", name)
	return nil
}
