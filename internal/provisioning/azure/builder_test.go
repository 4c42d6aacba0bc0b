package azure

import (
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/provisioning"
	kctesting "github.com/imamik/kubecloud/internal/testing"
)

type eventLog struct {
	mu     sync.Mutex
	events []provisioning.Event
}

func (l *eventLog) Printf(string, ...any) {}

func (l *eventLog) Event(e provisioning.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) WithFields(map[string]string) provisioning.Observer { return l }

func (l *eventLog) ofType(t provisioning.EventType) []provisioning.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []provisioning.Event
	for _, e := range l.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type built struct {
	clusterName string
	kubeconfig  string
	endpoint    string
	clusterID   string
}

func runBuild(t *testing.T, mon *kctesting.Monitor, cfg *config.ClusterConfig, obs provisioning.Observer) (built, error) {
	t.Helper()
	var got built
	err := mon.Run(func(pctx *pulumi.Context) error {
		out, err := Build(provisioning.NewContext(pctx, cfg, provisioning.WithObserver(obs)))
		if err != nil {
			return err
		}
		for dst, o := range map[*string]pulumi.StringOutput{
			&got.clusterName: out.ClusterName,
			&got.kubeconfig:  out.Kubeconfig,
			&got.endpoint:    out.Endpoint,
			&got.clusterID:   out.ClusterID,
		} {
			if *dst, err = kctesting.AwaitString(o); err != nil {
				return err
			}
		}
		return nil
	})
	return got, err
}

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAzure).Build(t)
	mon := kctesting.NewMonitor()

	got, err := runBuild(t, mon, cfg, &eventLog{})
	require.NoError(t, err)

	assert.Equal(t, 1, mon.Count(kctesting.TypeAzureResourceGroup))
	assert.Equal(t, 1, mon.Count(kctesting.TypeAzureVNet))
	assert.Equal(t, 1, mon.Count(kctesting.TypeAzureSubnet))
	assert.Equal(t, 1, mon.Count(kctesting.TypeAzureIdentity))
	assert.Equal(t, 1, mon.Count(kctesting.TypeAKSCluster))
	assert.Equal(t, 0, mon.Count(kctesting.TypeAKSAgentPool))

	rg, ok := mon.Resource(kctesting.TypeAzureResourceGroup, "rg-1")
	require.True(t, ok)
	assert.Equal(t, "westeurope", kctesting.Prop(rg.Inputs, "location").StringValue())

	vnet, ok := mon.Resource(kctesting.TypeAzureVNet, "k8s-cluster-dev-vnet")
	require.True(t, ok)
	assert.Equal(t, []string{"10.0.0.0/16"}, kctesting.Strings(kctesting.Prop(vnet.Inputs, "addressSpace", "addressPrefixes")))
	assert.Equal(t, "rg-1", kctesting.Prop(vnet.Inputs, "resourceGroupName").StringValue())

	subnet, ok := mon.Resource(kctesting.TypeAzureSubnet, "k8s-cluster-dev-aks-subnet")
	require.True(t, ok)
	assert.Equal(t, "10.0.1.0/24", kctesting.Prop(subnet.Inputs, "addressPrefix").StringValue())

	assert.Equal(t, "k8s-cluster-dev", got.clusterName)
	assert.Equal(t, kctesting.AKSKubeconfig, got.kubeconfig)
	assert.Equal(t, "https://"+kctesting.AKSFQDN, got.endpoint)
	assert.Equal(t, "k8s-cluster-dev-id", got.clusterID)
}

func TestBuild_ManagedCluster(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAzure).Build(t)
	mon := kctesting.NewMonitor()

	_, err := runBuild(t, mon, cfg, &eventLog{})
	require.NoError(t, err)

	cluster, ok := mon.Resource(kctesting.TypeAKSCluster, "k8s-cluster-dev")
	require.True(t, ok)
	in := cluster.Inputs
	assert.Equal(t, "k8s-cluster-dev", kctesting.Prop(in, "dnsPrefix").StringValue())
	assert.Equal(t, "1.29", kctesting.Prop(in, "kubernetesVersion").StringValue())
	assert.Equal(t, "UserAssigned", kctesting.Prop(in, "identity", "type").StringValue())
	assert.Equal(t, []string{"k8s-cluster-dev-identity-id"},
		kctesting.Strings(kctesting.Prop(in, "identity", "userAssignedIdentities")))
	assert.Equal(t, "azure", kctesting.Prop(in, "networkProfile", "networkPlugin").StringValue())
	assert.Equal(t, "azure", kctesting.Prop(in, "networkProfile", "networkPolicy").StringValue())
	assert.Equal(t, "10.96.0.0/16", kctesting.Prop(in, "networkProfile", "serviceCidr").StringValue())
	assert.Equal(t, "10.96.0.10", kctesting.Prop(in, "networkProfile", "dnsServiceIP").StringValue())
	assert.True(t, kctesting.Prop(in, "enableRBAC").BoolValue())
	assert.Equal(t, "patch", kctesting.Prop(in, "autoUpgradeProfile", "upgradeChannel").StringValue())
	assert.Equal(t, "Base", kctesting.Prop(in, "sku", "name").StringValue())
	assert.Equal(t, "Free", kctesting.Prop(in, "sku", "tier").StringValue())
	assert.True(t, kctesting.Prop(in, "aadProfile").IsNull())

	profiles := kctesting.Objects(kctesting.Prop(in, "agentPoolProfiles"))
	require.Len(t, profiles, 1)
	system := profiles[0]
	assert.Equal(t, "default", kctesting.Prop(system, "name").StringValue())
	assert.Equal(t, "System", kctesting.Prop(system, "mode").StringValue())
	assert.True(t, kctesting.Prop(system, "enableAutoScaling").BoolValue())
	assert.Equal(t, "Standard_B4s_v2", kctesting.Prop(system, "vmSize").StringValue())
	assert.Equal(t, 2.0, kctesting.Prop(system, "count").NumberValue())
	assert.Equal(t, 1.0, kctesting.Prop(system, "minCount").NumberValue())
	assert.Equal(t, 5.0, kctesting.Prop(system, "maxCount").NumberValue())
	assert.Equal(t, 20.0, kctesting.Prop(system, "osDiskSizeGB").NumberValue())
	assert.Equal(t, "k8s-cluster-dev-aks-subnet-id", kctesting.Prop(system, "vnetSubnetID").StringValue())
}

func TestBuild_AzureAD(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAzure).
		With(config.KeyAzureEnableAD, "true").
		Build(t)
	mon := kctesting.NewMonitor()

	_, err := runBuild(t, mon, cfg, &eventLog{})
	require.NoError(t, err)

	cluster, ok := mon.Resource(kctesting.TypeAKSCluster, "k8s-cluster-dev")
	require.True(t, ok)
	assert.True(t, kctesting.Prop(cluster.Inputs, "aadProfile", "managed").BoolValue())
	assert.True(t, kctesting.Prop(cluster.Inputs, "aadProfile", "enableAzureRBAC").BoolValue())
}

func TestBuild_AgentPools(t *testing.T) {
	t.Parallel()
	primary := kctesting.Pool("primary-pool", 1, 3, 1)
	primary.Taints = []config.NodeTaint{{Key: "critical", Value: "true", Effect: config.EffectNoSchedule}}
	workers := kctesting.Pool("Workers_On-Demand", 2, 8, 4)
	workers.InstanceSize = config.SizeXLarge
	workers.Labels = map[string]string{"tier": "apps"}
	workers.Taints = []config.NodeTaint{{Key: "spot", Value: "true", Effect: config.EffectPreferNoSchedule}}

	cfg := kctesting.NewConfigBuilder(config.ProviderAzure).
		WithNodePools(primary, workers, kctesting.Pool("batch", 0, 4, 0)).
		Build(t)
	mon := kctesting.NewMonitor()

	_, err := runBuild(t, mon, cfg, &eventLog{})
	require.NoError(t, err)

	cluster, ok := mon.Resource(kctesting.TypeAKSCluster, "k8s-cluster-dev")
	require.True(t, ok)
	profiles := kctesting.Objects(kctesting.Prop(cluster.Inputs, "agentPoolProfiles"))
	require.Len(t, profiles, 1)
	assert.Equal(t, "primarypool", kctesting.Prop(profiles[0], "name").StringValue())
	assert.Equal(t, []string{"critical=true:NoSchedule"}, kctesting.Strings(kctesting.Prop(profiles[0], "nodeTaints")))

	require.Equal(t, 2, mon.Count(kctesting.TypeAKSAgentPool))

	pool, ok := mon.Resource(kctesting.TypeAKSAgentPool, "k8s-cluster-dev-workersond")
	require.True(t, ok)
	in := pool.Inputs
	assert.Equal(t, "workersond", kctesting.Prop(in, "agentPoolName").StringValue())
	assert.Equal(t, "User", kctesting.Prop(in, "mode").StringValue())
	assert.Equal(t, "k8s-cluster-dev", kctesting.Prop(in, "resourceName").StringValue())
	assert.Equal(t, "Standard_D4s_v3", kctesting.Prop(in, "vmSize").StringValue())
	assert.Equal(t, 4.0, kctesting.Prop(in, "count").NumberValue())
	assert.True(t, kctesting.Prop(in, "enableAutoScaling").BoolValue())
	assert.Equal(t, "k8s-cluster-dev-aks-subnet-id", kctesting.Prop(in, "vnetSubnetID").StringValue())
	assert.Equal(t, map[string]string{"tier": "apps"}, kctesting.StringMap(kctesting.Prop(in, "nodeLabels")))
	assert.Equal(t, []string{"spot=true:PreferNoSchedule"}, kctesting.Strings(kctesting.Prop(in, "nodeTaints")))

	_, ok = mon.Resource(kctesting.TypeAKSAgentPool, "k8s-cluster-dev-batch")
	assert.True(t, ok)
}

func TestBuild_EmptyCredentials(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAzure).Build(t)
	mon := kctesting.NewMonitor()
	mon.Invokes[kctesting.InvokeAKSCredentials] = resource.NewPropertyMapFromMap(map[string]any{
		"kubeconfigs": []any{},
	})
	obs := &eventLog{}

	got, err := runBuild(t, mon, cfg, obs)
	require.NoError(t, err)

	assert.Empty(t, got.kubeconfig)
	warnings := obs.ofType(provisioning.EventValidationWarning)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "no user credentials")
}

func TestBuild_MissingProviderBlock(t *testing.T) {
	t.Parallel()
	cfg := kctesting.NewConfigBuilder(config.ProviderAzure).Build(t)
	cfg.Azure = nil

	_, err := runBuild(t, kctesting.NewMonitor(), cfg, &eventLog{})
	require.Error(t, err)
	assert.ErrorIs(t, err, provisioning.ErrMissingProviderBlock)
}

func TestTopology(t *testing.T) {
	t.Parallel()
	top := Topology()
	assert.Equal(t, config.ProviderAzure, top.Provider)
	assert.True(t, top.FoldFirstPool)
}
