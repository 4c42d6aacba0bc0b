package gcp

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/container"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/util/labels"
)

const (
	releaseChannel      = "REGULAR"
	networkPolicy       = "CALICO"
	masterIPv4CIDRBlock = "172.16.0.0/28"
)

// provisionCluster declares the GKE control plane. The default node pool
// is removed once the cluster exists.
func (b *builder) provisionCluster() error {
	args := &container.ClusterArgs{
		Name:             pulumi.String(b.cfg.ClusterName),
		Location:         pulumi.String(b.location),
		Project:          pulumi.String(b.gcp.ProjectID),
		MinMasterVersion: pulumi.String(b.cfg.KubernetesVersion),

		Network:    b.network.Name,
		Subnetwork: b.subnet.Name,
		IpAllocationPolicy: &container.ClusterIpAllocationPolicyArgs{
			ClusterSecondaryRangeName:  pulumi.String(PodsRangeName),
			ServicesSecondaryRangeName: pulumi.String(ServicesRangeName),
		},

		ReleaseChannel: &container.ClusterReleaseChannelArgs{
			Channel: pulumi.String(releaseChannel),
		},

		RemoveDefaultNodePool: pulumi.Bool(true),
		InitialNodeCount:      pulumi.Int(1),

		NetworkPolicy: &container.ClusterNetworkPolicyArgs{
			Enabled:  pulumi.Bool(true),
			Provider: pulumi.String(networkPolicy),
		},
		AddonsConfig: &container.ClusterAddonsConfigArgs{
			HttpLoadBalancing: &container.ClusterAddonsConfigHttpLoadBalancingArgs{
				Disabled: pulumi.Bool(false),
			},
			HorizontalPodAutoscaling: &container.ClusterAddonsConfigHorizontalPodAutoscalingArgs{
				Disabled: pulumi.Bool(false),
			},
			GcePersistentDiskCsiDriverConfig: &container.ClusterAddonsConfigGcePersistentDiskCsiDriverConfigArgs{
				Enabled: pulumi.Bool(true),
			},
		},

		ResourceLabels:     pulumi.ToStringMap(labels.GCPLabels(b.cfg.Tags)),
		DeletionProtection: pulumi.Bool(false),
	}

	if b.gcp.EnableWorkloadIdentity {
		args.WorkloadIdentityConfig = &container.ClusterWorkloadIdentityConfigArgs{
			WorkloadPool: pulumi.String(WorkloadPool(b.gcp.ProjectID)),
		}
	}

	// Private nodes keep the public endpoint reachable.
	if b.gcp.PrivateCluster {
		args.PrivateClusterConfig = &container.ClusterPrivateClusterConfigArgs{
			EnablePrivateNodes:    pulumi.Bool(true),
			EnablePrivateEndpoint: pulumi.Bool(false),
			MasterIpv4CidrBlock:   pulumi.String(masterIPv4CIDRBlock),
		}
	}

	var err error
	b.cluster, err = container.NewCluster(b.ctx.Pulumi, b.cfg.ClusterName, args)
	if err != nil {
		return fmt.Errorf("failed to declare GKE cluster: %w", err)
	}
	b.ctx.Declared("gke_cluster", b.cfg.ClusterName)
	return nil
}
