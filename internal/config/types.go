package config

import (
	"fmt"
	"strings"

	"github.com/imamik/kubecloud/internal/util/labels"
)

// Provider identifies the cloud backend a cluster is provisioned on.
type Provider string

// Supported providers.
const (
	ProviderAWS   Provider = "aws"
	ProviderGCP   Provider = "gcp"
	ProviderAzure Provider = "azure"
)

// Providers lists every supported provider in a stable order.
var Providers = []Provider{ProviderAWS, ProviderGCP, ProviderAzure}

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// ParseProvider converts a raw identifier to a Provider.
func ParseProvider(s string) (Provider, error) {
	for _, p := range Providers {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid cloud provider %q: must be one of aws, gcp, azure", s)
}

// InstanceSize is an abstract machine size tier.
type InstanceSize string

// Instance size tiers.
const (
	SizeSmall  InstanceSize = "small"
	SizeMedium InstanceSize = "medium"
	SizeLarge  InstanceSize = "large"
	SizeXLarge InstanceSize = "xlarge"
)

// InstanceSizes lists every tier from smallest to largest.
var InstanceSizes = []InstanceSize{SizeSmall, SizeMedium, SizeLarge, SizeXLarge}

// UnmarshalText rejects tiers outside the closed set so that every decoded
// pool resolves to a machine type.
func (s *InstanceSize) UnmarshalText(text []byte) error {
	v := InstanceSize(text)
	for _, known := range InstanceSizes {
		if v == known {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("invalid instance size %q: must be one of small, medium, large, xlarge", string(text))
}

// TaintEffect is the scheduling effect of a node taint.
type TaintEffect string

// Taint effects in their Kubernetes spelling.
const (
	EffectNoSchedule       TaintEffect = "NoSchedule"
	EffectPreferNoSchedule TaintEffect = "PreferNoSchedule"
	EffectNoExecute        TaintEffect = "NoExecute"
)

// UnmarshalText accepts the three Kubernetes effect names.
func (e *TaintEffect) UnmarshalText(text []byte) error {
	switch v := TaintEffect(text); v {
	case EffectNoSchedule, EffectPreferNoSchedule, EffectNoExecute:
		*e = v
		return nil
	}
	return fmt.Errorf("invalid taint effect %q: must be one of NoSchedule, PreferNoSchedule, NoExecute", string(text))
}

// Token converts the effect to the enum token used by the EKS and GKE APIs.
// NoSchedule and NoExecute are uppercased with an underscore between words;
// every other value, including tokens that are already converted, is
// returned unchanged.
func (e TaintEffect) Token() string {
	switch e {
	case EffectNoSchedule:
		return "NO_SCHEDULE"
	case EffectNoExecute:
		return "NO_EXECUTE"
	}
	return string(e)
}

// NodeTaint restricts which workloads may schedule onto a pool's nodes.
type NodeTaint struct {
	Key    string      `json:"key" yaml:"key"`
	Value  string      `json:"value" yaml:"value"`
	Effect TaintEffect `json:"effect" yaml:"effect"`
}

// String renders the taint in kubectl notation (key=value:Effect).
func (t NodeTaint) String() string {
	return fmt.Sprintf("%s=%s:%s", t.Key, t.Value, t.Effect)
}

// NodePoolConfig describes one independently scalable group of workers.
type NodePoolConfig struct {
	Name         string            `json:"name" yaml:"name"`
	InstanceSize InstanceSize      `json:"instanceSize" yaml:"instanceSize"`
	MinSize      int               `json:"minSize" yaml:"minSize"`
	MaxSize      int               `json:"maxSize" yaml:"maxSize"`
	DesiredSize  int               `json:"desiredSize" yaml:"desiredSize"`
	DiskSizeGB   int               `json:"diskSizeGb" yaml:"diskSizeGb"`
	Labels       map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Taints       []NodeTaint       `json:"taints,omitempty" yaml:"taints,omitempty"`
}

// NetworkConfig holds the address plan of the cluster network.
type NetworkConfig struct {
	VPCCIDR            string   `json:"vpcCidr" yaml:"vpcCidr"`
	PrivateSubnetCIDRs []string `json:"privateSubnetCidrs" yaml:"privateSubnetCidrs"`
	// PublicSubnetCIDRs is only used by the AWS builder.
	PublicSubnetCIDRs []string `json:"publicSubnetCidrs,omitempty" yaml:"publicSubnetCidrs,omitempty"`
}

// AWSAddons toggles the EKS add-ons.
type AWSAddons struct {
	VPCCNI       bool `json:"vpcCni" yaml:"vpcCni"`
	CoreDNS      bool `json:"coreDns" yaml:"coreDns"`
	KubeProxy    bool `json:"kubeProxy" yaml:"kubeProxy"`
	EBSCSIDriver bool `json:"ebsCsiDriver" yaml:"ebsCsiDriver"`
}

// AWSConfig holds EKS-specific options.
type AWSConfig struct {
	PrivateCluster bool      `json:"privateCluster" yaml:"privateCluster"`
	EnableAddons   AWSAddons `json:"enableAddons" yaml:"enableAddons"`
}

// GCPConfig holds GKE-specific options.
type GCPConfig struct {
	ProjectID              string `json:"projectId" yaml:"projectId"`
	PrivateCluster         bool   `json:"privateCluster" yaml:"privateCluster"`
	EnableWorkloadIdentity bool   `json:"enableWorkloadIdentity" yaml:"enableWorkloadIdentity"`
	ZonalCluster           bool   `json:"zonalCluster" yaml:"zonalCluster"`
	// Zone overrides the default "<region>-b" zone of a zonal cluster.
	Zone string `json:"zone,omitempty" yaml:"zone,omitempty"`
}

// AzureConfig holds AKS-specific options.
type AzureConfig struct {
	ResourceGroupName string `json:"resourceGroupName" yaml:"resourceGroupName"`
	SubscriptionID    string `json:"subscriptionId,omitempty" yaml:"subscriptionId,omitempty"`
	EnableAzureAD     bool   `json:"enableAzureAd" yaml:"enableAzureAd"`
}

// ClusterConfig is the validated, fully defaulted desired state of a cluster.
// Exactly one of AWS, GCP and Azure is set and it matches Provider.
type ClusterConfig struct {
	Provider          Provider          `json:"provider" yaml:"provider"`
	ClusterName       string            `json:"clusterName" yaml:"clusterName"`
	KubernetesVersion string            `json:"kubernetesVersion" yaml:"kubernetesVersion"`
	Region            string            `json:"region" yaml:"region"`
	Network           NetworkConfig     `json:"network" yaml:"network"`
	NodePools         []NodePoolConfig  `json:"nodePools" yaml:"nodePools"`
	Tags              map[string]string `json:"tags" yaml:"tags"`

	AWS   *AWSConfig   `json:"aws,omitempty" yaml:"aws,omitempty"`
	GCP   *GCPConfig   `json:"gcp,omitempty" yaml:"gcp,omitempty"`
	Azure *AzureConfig `json:"azure,omitempty" yaml:"azure,omitempty"`
}

// Environment returns the Environment tag the config was built with.
func (c *ClusterConfig) Environment() string {
	return c.Tags[labels.KeyEnvironment]
}

// DefaultPool returns the first pool, which every builder treats as the
// system pool.
func (c *ClusterConfig) DefaultPool() NodePoolConfig {
	return c.NodePools[0]
}

// AdditionalPools returns every pool after the first.
func (c *ClusterConfig) AdditionalPools() []NodePoolConfig {
	return c.NodePools[1:]
}

// ClusterName derives the cluster name from the project and environment.
func ClusterName(project, environment string) string {
	return strings.Join([]string{project, environment}, "-")
}
