package aws

import (
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/provisioning"
	kctesting "github.com/imamik/kubecloud/internal/testing"
)

type built struct {
	clusterName string
	kubeconfig  string
}

func runBuild(t *testing.T, cfg *config.ClusterConfig) (*kctesting.Monitor, built, error) {
	t.Helper()
	mon := kctesting.NewMonitor()
	var got built
	err := mon.Run(func(pctx *pulumi.Context) error {
		out, err := Build(provisioning.NewContext(pctx, cfg))
		if err != nil {
			return err
		}
		if got.clusterName, err = kctesting.AwaitString(out.ClusterName); err != nil {
			return err
		}
		got.kubeconfig, err = kctesting.AwaitString(out.Kubeconfig)
		return err
	})
	return mon, got, err
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).Build(t)

	mon, got, err := runBuild(t, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, mon.Count(kctesting.TypeVPC))
	assert.Equal(t, 1, mon.Count(kctesting.TypeInternetGateway))
	assert.Equal(t, 6, mon.Count(kctesting.TypeSubnet))
	assert.Equal(t, 1, mon.Count(kctesting.TypeEIP))
	assert.Equal(t, 1, mon.Count(kctesting.TypeNATGateway))
	assert.Equal(t, 2, mon.Count(kctesting.TypeRouteTable))
	assert.Equal(t, 6, mon.Count(kctesting.TypeRouteTableAssociation))
	assert.Equal(t, 1, mon.Count(kctesting.TypeEKSCluster))
	assert.Equal(t, 0, mon.Count(kctesting.TypeEKSManagedNodeGroup))

	for _, name := range []string{"k8s-cluster-dev-public-rta-0", "k8s-cluster-dev-private-rta-2"} {
		_, ok := mon.Resource(kctesting.TypeRouteTableAssociation, name)
		assert.True(t, ok, name)
	}

	vpc, ok := mon.Resource(kctesting.TypeVPC, "k8s-cluster-dev-vpc")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.0/16", kctesting.Prop(vpc.Inputs, "cidrBlock").StringValue())
	assert.True(t, kctesting.Prop(vpc.Inputs, "enableDnsHostnames").BoolValue())
	tags := kctesting.StringMap(kctesting.Prop(vpc.Inputs, "tags"))
	assert.Equal(t, "k8s-cluster-dev-vpc", tags["Name"])
	assert.Equal(t, "k8s-cluster", tags["Project"])
	assert.Equal(t, "dev", tags["Environment"])
	assert.Equal(t, "pulumi", tags["ManagedBy"])

	assert.Equal(t, "k8s-cluster-dev", got.clusterName)
	assert.Contains(t, got.kubeconfig, "current-context: aws")
}

func TestBuild_Subnets(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).Build(t)

	mon, _, err := runBuild(t, cfg)
	require.NoError(t, err)

	for i, want := range []string{"10.0.101.0/24", "10.0.102.0/24", "10.0.103.0/24"} {
		s, ok := mon.Resource(kctesting.TypeSubnet, "k8s-cluster-dev-public-"+string(rune('0'+i)))
		require.True(t, ok)
		assert.Equal(t, want, kctesting.Prop(s.Inputs, "cidrBlock").StringValue())
		assert.Equal(t, kctesting.AvailabilityZones[i], kctesting.Prop(s.Inputs, "availabilityZone").StringValue())
		assert.True(t, kctesting.Prop(s.Inputs, "mapPublicIpOnLaunch").BoolValue())
		tags := kctesting.StringMap(kctesting.Prop(s.Inputs, "tags"))
		assert.Equal(t, "1", tags["kubernetes.io/role/elb"])
		assert.Equal(t, "shared", tags["kubernetes.io/cluster/k8s-cluster-dev"])
	}

	for i, want := range []string{"10.0.1.0/24", "10.0.2.0/24", "10.0.3.0/24"} {
		s, ok := mon.Resource(kctesting.TypeSubnet, "k8s-cluster-dev-private-"+string(rune('0'+i)))
		require.True(t, ok)
		assert.Equal(t, want, kctesting.Prop(s.Inputs, "cidrBlock").StringValue())
		tags := kctesting.StringMap(kctesting.Prop(s.Inputs, "tags"))
		assert.Equal(t, "1", tags["kubernetes.io/role/internal-elb"])
	}
}

func TestBuild_ZonesWrapAround(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).
		With(config.KeyPrivateSubnets, `["10.0.1.0/24","10.0.2.0/24","10.0.3.0/24","10.0.4.0/24"]`).
		Build(t)

	mon, _, err := runBuild(t, cfg)
	require.NoError(t, err)

	s, ok := mon.Resource(kctesting.TypeSubnet, "k8s-cluster-dev-private-3")
	require.True(t, ok)
	assert.Equal(t, "us-east-1a", kctesting.Prop(s.Inputs, "availabilityZone").StringValue())
}

func TestBuild_ClusterFromFirstPool(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).Build(t)

	mon, _, err := runBuild(t, cfg)
	require.NoError(t, err)

	cluster, ok := mon.Resource(kctesting.TypeEKSCluster, "k8s-cluster-dev")
	require.True(t, ok)
	in := cluster.Inputs
	assert.Equal(t, "k8s-cluster-dev", kctesting.Prop(in, "name").StringValue())
	assert.Equal(t, "1.29", kctesting.Prop(in, "version").StringValue())
	assert.Equal(t, "t3.medium", kctesting.Prop(in, "instanceType").StringValue())
	assert.Equal(t, 1.0, kctesting.Prop(in, "minSize").NumberValue())
	assert.Equal(t, 5.0, kctesting.Prop(in, "maxSize").NumberValue())
	assert.Equal(t, 2.0, kctesting.Prop(in, "desiredCapacity").NumberValue())
	assert.Equal(t, 20.0, kctesting.Prop(in, "nodeRootVolumeSize").NumberValue())
	assert.False(t, kctesting.Prop(in, "endpointPrivateAccess").BoolValue())
	assert.True(t, kctesting.Prop(in, "endpointPublicAccess").BoolValue())
}

func TestBuild_PrivateCluster(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).
		With(config.KeyAWSPrivateCluster, "true").
		Build(t)

	mon, _, err := runBuild(t, cfg)
	require.NoError(t, err)

	cluster, ok := mon.Resource(kctesting.TypeEKSCluster, "k8s-cluster-dev")
	require.True(t, ok)
	assert.True(t, kctesting.Prop(cluster.Inputs, "endpointPrivateAccess").BoolValue())
}

func TestBuild_AdditionalPools(t *testing.T) {
	t.Parallel()
	gpu := kctesting.Pool("gpu", 0, 2, 1)
	gpu.InstanceSize = config.SizeXLarge
	gpu.Labels = map[string]string{"accelerator": "gpu"}
	gpu.Taints = []config.NodeTaint{
		{Key: "gpu", Value: "true", Effect: config.EffectNoSchedule},
		{Key: "spot", Value: "true", Effect: config.EffectPreferNoSchedule},
		{Key: "drain", Value: "now", Effect: config.EffectNoExecute},
	}
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).
		WithNodePools(kctesting.Pool("system", 1, 3, 2), kctesting.Pool("apps", 2, 6, 3), gpu).
		Build(t)

	mon, _, err := runBuild(t, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, mon.Count(kctesting.TypeEKSCluster))
	require.Equal(t, 2, mon.Count(kctesting.TypeEKSManagedNodeGroup))

	_, ok := mon.Resource(kctesting.TypeEKSManagedNodeGroup, "k8s-cluster-dev-system")
	assert.False(t, ok, "first pool is folded into the cluster")

	ng, ok := mon.Resource(kctesting.TypeEKSManagedNodeGroup, "k8s-cluster-dev-gpu")
	require.True(t, ok)
	in := ng.Inputs
	assert.Equal(t, "gpu", kctesting.Prop(in, "nodeGroupName").StringValue())
	assert.Equal(t, []string{"t3.xlarge"}, kctesting.Strings(kctesting.Prop(in, "instanceTypes")))
	assert.Equal(t, 0.0, kctesting.Prop(in, "scalingConfig", "minSize").NumberValue())
	assert.Equal(t, 2.0, kctesting.Prop(in, "scalingConfig", "maxSize").NumberValue())
	assert.Equal(t, 1.0, kctesting.Prop(in, "scalingConfig", "desiredSize").NumberValue())
	assert.Equal(t, 50.0, kctesting.Prop(in, "diskSize").NumberValue())
	assert.Equal(t, map[string]string{"accelerator": "gpu"}, kctesting.StringMap(kctesting.Prop(in, "labels")))

	taints := kctesting.Objects(kctesting.Prop(in, "taints"))
	require.Len(t, taints, 3)
	var effects []string
	for _, taint := range taints {
		effects = append(effects, kctesting.Prop(taint, "effect").StringValue())
	}
	assert.Equal(t, []string{"NO_SCHEDULE", "PreferNoSchedule", "NO_EXECUTE"}, effects)
}

func TestBuild_NodeRolePolicies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ebs         string
		attachments int
		addons      int
	}{
		{"ebs csi enabled", "true", 4, 1},
		{"ebs csi disabled", "false", 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := kctesting.NewConfigBuilder(config.ProviderAWS).
				With(config.KeyAWSEnableEBSCSI, tt.ebs).
				Build(t)

			mon, _, err := runBuild(t, cfg)
			require.NoError(t, err)

			assert.Equal(t, 1, mon.Count(kctesting.TypeIAMRole))
			assert.Equal(t, tt.attachments, mon.Count(kctesting.TypeRolePolicyAttachment))
			assert.Equal(t, tt.addons, mon.Count(kctesting.TypeEKSAddon))
		})
	}
}

func TestBuild_EBSAddon(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).Build(t)

	mon, _, err := runBuild(t, cfg)
	require.NoError(t, err)

	addon, ok := mon.Resource(kctesting.TypeEKSAddon, "k8s-cluster-dev-aws-ebs-csi-driver")
	require.True(t, ok)
	assert.Equal(t, "aws-ebs-csi-driver", kctesting.Prop(addon.Inputs, "addonName").StringValue())
	assert.Equal(t, "k8s-cluster-dev", kctesting.Prop(addon.Inputs, "clusterName").StringValue())
}

func TestBuild_MissingProviderBlock(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).Build(t)
	cfg.AWS = nil

	_, _, err := runBuild(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, provisioning.ErrMissingProviderBlock)
}

func TestBuild_NoPublicSubnets(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAWS).Build(t)
	cfg.Network.PublicSubnetCIDRs = nil

	mon, _, err := runBuild(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAT gateway")
	assert.Equal(t, 0, mon.Count(kctesting.TypeVPC))
}

func TestTopology(t *testing.T) {
	t.Parallel()
	top := Topology()
	assert.Equal(t, config.ProviderAWS, top.Provider)
	assert.True(t, top.FoldFirstPool)
	assert.NotNil(t, top.Build)
}
