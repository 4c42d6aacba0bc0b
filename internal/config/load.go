package config

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/imamik/kubecloud/internal/util/labels"
)

// Load builds a validated ClusterConfig from raw key/value input.
//
// Required keys are cloudProvider, environment and region, plus gcp:project
// when the provider is gcp and azureResourceGroup when it is azure. Every
// other key falls back to a default. A missing or invalid key yields a
// *FieldError naming it; nothing is ever substituted for a required value.
func Load(src Source) (*ClusterConfig, error) {
	rawProvider, ok := lookup(src, KeyCloudProvider)
	if !ok {
		return nil, requiredError(KeyCloudProvider)
	}
	provider, err := ParseProvider(rawProvider)
	if err != nil {
		return nil, invalidError(KeyCloudProvider, "%v", err)
	}

	environment, ok := lookup(src, KeyEnvironment)
	if !ok {
		return nil, requiredError(KeyEnvironment)
	}

	region, ok := lookup(src, KeyRegion)
	if !ok {
		return nil, requiredError(KeyRegion)
	}

	project := lookupDefault(src, KeyProjectName, DefaultProjectName)

	network, err := loadNetwork(src)
	if err != nil {
		return nil, err
	}

	pools, err := loadNodePools(src)
	if err != nil {
		return nil, err
	}

	var tagOverrides map[string]string
	if err := lookupJSON(src, KeyTags, &tagOverrides); err != nil {
		return nil, err
	}

	cfg := &ClusterConfig{
		Provider:          provider,
		ClusterName:       ClusterName(project, environment),
		KubernetesVersion: lookupDefault(src, KeyKubernetesVersion, DefaultKubernetesVersion),
		Region:            region,
		Network:           network,
		NodePools:         pools,
		Tags: labels.NewTagBuilder(project, environment, ManagedBy).
			Merge(tagOverrides).
			Build(),
	}

	switch provider {
	case ProviderAWS:
		cfg.AWS, err = loadAWS(src)
	case ProviderGCP:
		cfg.GCP, err = loadGCP(src)
	case ProviderAzure:
		cfg.Azure, err = loadAzure(src)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultNodePools returns the single pool synthesized when no nodePools
// override is supplied.
func DefaultNodePools() []NodePoolConfig {
	return []NodePoolConfig{{
		Name:         defaultPoolName,
		InstanceSize: SizeMedium,
		MinSize:      defaultPoolMinSize,
		MaxSize:      defaultPoolMaxSize,
		DesiredSize:  defaultPoolDesiredSize,
		DiskSizeGB:   defaultPoolDiskSizeGB,
		Labels: map[string]string{
			"role": "worker",
		},
	}}
}

// DefaultNetwork returns the default address plan carved from vpcCIDR as
// /24 blocks: 10.0.{1,2,3}.0/24 private and 10.0.{101,102,103}.0/24 public
// for both the default /16 VPC and a 10.0.0.0/8 one.
func DefaultNetwork(vpcCIDR string) (NetworkConfig, error) {
	private, err := defaultSubnets(vpcCIDR, defaultPrivateSubnetNetnums)
	if err != nil {
		return NetworkConfig{}, err
	}
	public, err := defaultSubnets(vpcCIDR, defaultPublicSubnetNetnums)
	if err != nil {
		return NetworkConfig{}, err
	}
	return NetworkConfig{
		VPCCIDR:            vpcCIDR,
		PrivateSubnetCIDRs: private,
		PublicSubnetCIDRs:  public,
	}, nil
}

// defaultSubnets carves one /24 per netnum out of vpcCIDR.
func defaultSubnets(vpcCIDR string, netnums []int) ([]string, error) {
	network, err := parseIPv4CIDR(vpcCIDR)
	if err != nil {
		return nil, err
	}
	prefixLen, _ := network.Mask.Size()
	if prefixLen > defaultSubnetPrefixLen {
		return nil, fmt.Errorf("%s is smaller than a /%d subnet", vpcCIDR, defaultSubnetPrefixLen)
	}
	return SubnetCIDRs(vpcCIDR, defaultSubnetPrefixLen-prefixLen, netnums)
}

func loadNetwork(src Source) (NetworkConfig, error) {
	vpc := lookupDefault(src, KeyVPCCIDR, DefaultVPCCIDR)

	var private, public []string
	if err := lookupJSON(src, KeyPrivateSubnets, &private); err != nil {
		return NetworkConfig{}, err
	}
	if err := lookupJSON(src, KeyPublicSubnets, &public); err != nil {
		return NetworkConfig{}, err
	}

	// Defaults are only derived for the lists that were not overridden.
	var err error
	if private == nil {
		if private, err = defaultSubnets(vpc, defaultPrivateSubnetNetnums); err != nil {
			return NetworkConfig{}, underivableError(KeyPrivateSubnets, vpc, err)
		}
	}
	if public == nil {
		if public, err = defaultSubnets(vpc, defaultPublicSubnetNetnums); err != nil {
			return NetworkConfig{}, underivableError(KeyPublicSubnets, vpc, err)
		}
	}

	return NetworkConfig{
		VPCCIDR:            vpc,
		PrivateSubnetCIDRs: private,
		PublicSubnetCIDRs:  public,
	}, nil
}

func underivableError(field, vpc string, err error) error {
	return invalidError(field, "cannot derive default subnets from %s %q (%v); set %s explicitly", KeyVPCCIDR, vpc, err, field)
}

// loadNodePools parses the nodePools override verbatim. Only the JSON shape
// and the closed enumerations (size tier, taint effect) are checked.
func loadNodePools(src Source) ([]NodePoolConfig, error) {
	var pools []NodePoolConfig
	if err := lookupJSON(src, KeyNodePools, &pools); err != nil {
		return nil, err
	}
	if pools == nil {
		return DefaultNodePools(), nil
	}
	if len(pools) == 0 {
		return nil, invalidError(KeyNodePools, "must contain at least one node pool")
	}
	return pools, nil
}

func loadAWS(src Source) (*AWSConfig, error) {
	private, err := lookupBool(src, KeyAWSPrivateCluster, false)
	if err != nil {
		return nil, err
	}
	ebs, err := lookupBool(src, KeyAWSEnableEBSCSI, true)
	if err != nil {
		return nil, err
	}
	return &AWSConfig{
		PrivateCluster: private,
		EnableAddons: AWSAddons{
			VPCCNI:       true,
			CoreDNS:      true,
			KubeProxy:    true,
			EBSCSIDriver: ebs,
		},
	}, nil
}

func loadGCP(src Source) (*GCPConfig, error) {
	projectID, ok := lookup(src, KeyGCPProject)
	if !ok {
		return nil, requiredError(KeyGCPProject)
	}
	private, err := lookupBool(src, KeyGCPPrivateCluster, false)
	if err != nil {
		return nil, err
	}
	workloadIdentity, err := lookupBool(src, KeyGCPEnableWorkloadIdentity, true)
	if err != nil {
		return nil, err
	}
	zonal, err := lookupBool(src, KeyGCPZonalCluster, true)
	if err != nil {
		return nil, err
	}
	zone, _ := lookup(src, KeyGCPZone)

	return &GCPConfig{
		ProjectID:              projectID,
		PrivateCluster:         private,
		EnableWorkloadIdentity: workloadIdentity,
		ZonalCluster:           zonal,
		Zone:                   zone,
	}, nil
}

func loadAzure(src Source) (*AzureConfig, error) {
	resourceGroup, ok := lookup(src, KeyAzureResourceGroup)
	if !ok {
		return nil, requiredError(KeyAzureResourceGroup)
	}
	enableAD, err := lookupBool(src, KeyAzureEnableAD, false)
	if err != nil {
		return nil, err
	}
	subscription, _ := lookup(src, KeyAzureSubscription)

	return &AzureConfig{
		ResourceGroupName: resourceGroup,
		SubscriptionID:    subscription,
		EnableAzureAD:     enableAD,
	}, nil
}

func lookupDefault(src Source, key, def string) string {
	if v, ok := lookup(src, key); ok {
		return v
	}
	return def
}

// lookupBool parses a boolean toggle. An absent key yields def; an explicit
// false is honored.
func lookupBool(src Source, key string, def bool) (bool, error) {
	v, ok := lookup(src, key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalidError(key, "must be a boolean, got %q", v)
	}
	return b, nil
}

// lookupJSON decodes a JSON-encoded value into out. out is left untouched
// when the key is absent.
func lookupJSON(src Source, key string, out any) error {
	v, ok := lookup(src, key)
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(v), out); err != nil {
		return malformedError(key, err)
	}
	return nil
}
