package azure

import (
	"fmt"

	"github.com/pulumi/pulumi-azure-native-sdk/containerservice/v2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/kubeconfig"
	"github.com/imamik/kubecloud/internal/provisioning"
	"github.com/imamik/kubecloud/internal/util/naming"
)

const (
	serviceCIDR = "10.96.0.0/16"
	// dnsServiceHost is the cluster DNS address within serviceCIDR.
	dnsServiceHost = 10
)

// provisionCluster declares the managed cluster with the first pool as its
// system agent pool.
func (b *builder) provisionCluster() error {
	pool := b.cfg.DefaultPool()

	dnsServiceIP, err := config.CIDRHost(serviceCIDR, dnsServiceHost)
	if err != nil {
		return fmt.Errorf("failed to derive DNS service IP: %w", err)
	}

	args := &containerservice.ManagedClusterArgs{
		ResourceName:      pulumi.String(b.cfg.ClusterName),
		ResourceGroupName: b.group.Name,
		Location:          pulumi.String(b.cfg.Region),
		KubernetesVersion: pulumi.String(b.cfg.KubernetesVersion),
		DnsPrefix:         pulumi.String(b.cfg.ClusterName),

		Identity: &containerservice.ManagedClusterIdentityArgs{
			Type: containerservice.ResourceIdentityTypeUserAssigned,
			UserAssignedIdentities: pulumi.StringArray{
				b.identity.ID().ToStringOutput(),
			},
		},

		NetworkProfile: &containerservice.ContainerServiceNetworkProfileArgs{
			NetworkPlugin: pulumi.String("azure"),
			NetworkPolicy: pulumi.String("azure"),
			ServiceCidr:   pulumi.String(serviceCIDR),
			DnsServiceIP:  pulumi.String(dnsServiceIP),
		},

		AgentPoolProfiles: containerservice.ManagedClusterAgentPoolProfileArray{
			&containerservice.ManagedClusterAgentPoolProfileArgs{
				Name:              pulumi.String(naming.AzurePoolName(pool.Name)),
				Mode:              pulumi.String("System"),
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
			},
		},

		EnableRBAC: pulumi.Bool(true),
		AutoUpgradeProfile: &containerservice.ManagedClusterAutoUpgradeProfileArgs{
			UpgradeChannel: pulumi.String("patch"),
		},
		Sku: &containerservice.ManagedClusterSKUArgs{
			Name: pulumi.String("Base"),
			Tier: pulumi.String("Free"),
		},
		Tags: pulumi.ToStringMap(b.cfg.Tags),
	}

	if b.azure.EnableAzureAD {
		args.AadProfile = &containerservice.ManagedClusterAADProfileArgs{
			Managed:         pulumi.Bool(true),
			EnableAzureRBAC: pulumi.Bool(true),
		}
	}

	b.cluster, err = containerservice.NewManagedCluster(b.ctx.Pulumi, b.cfg.ClusterName, args)
	if err != nil {
		return fmt.Errorf("failed to declare AKS cluster: %w", err)
	}
	b.ctx.Declared("aks_cluster", b.cfg.ClusterName)
	return nil
}

// decodeCredentials returns the first user kubeconfig. An empty credential
// list is logged and yields an empty document.
func (b *builder) decodeCredentials(creds []containerservice.CredentialResultResponse) (string, error) {
	if len(creds) == 0 {
		provisioning.LogValidation(b.ctx.Observer, provisioning.ValidationError{
			Field:    provisioning.OutputKubeconfig,
			Message:  "AKS returned no user credentials, exporting an empty kubeconfig",
			Severity: provisioning.SeverityWarning,
		})
		return "", nil
	}
	return kubeconfig.DecodeBase64(creds[0].Value)
}

func nodeTaints(taints []config.NodeTaint) pulumi.StringArray {
	out := make(pulumi.StringArray, 0, len(taints))
	for _, t := range taints {
		out = append(out, pulumi.String(t.String()))
	}
	return out
}
