package config

// Configuration keys recognized by Load. Unqualified keys live in the project
// namespace; provider-scoped keys carry their provider namespace.
const (
	KeyCloudProvider     = "cloudProvider"
	KeyEnvironment       = "environment"
	KeyProjectName       = "projectName"
	KeyRegion            = "region"
	KeyKubernetesVersion = "kubernetesVersion"
	KeyVPCCIDR           = "vpcCidr"
	KeyPrivateSubnets    = "privateSubnetCidrs"
	KeyPublicSubnets     = "publicSubnetCidrs"
	KeyNodePools         = "nodePools"
	KeyTags              = "tags"

	KeyAWSPrivateCluster = "awsPrivateCluster"
	KeyAWSEnableEBSCSI   = "awsEnableEbsCsi"

	KeyGCPProject                = "gcp:project"
	KeyGCPPrivateCluster         = "gcpPrivateCluster"
	KeyGCPEnableWorkloadIdentity = "gcpEnableWorkloadIdentity"
	KeyGCPZonalCluster           = "gcpZonalCluster"
	KeyGCPZone                   = "gcpZone"

	KeyAzureResourceGroup = "azureResourceGroup"
	KeyAzureSubscription  = "azure-native:subscriptionId"
	KeyAzureEnableAD      = "azureEnableAd"
)

// Defaults applied when the corresponding key is absent.
const (
	DefaultProjectName       = "k8s-cluster"
	DefaultKubernetesVersion = "1.29"
	DefaultVPCCIDR           = "10.0.0.0/16"

	// ManagedBy is the value of the ManagedBy tag on every resource.
	ManagedBy = "pulumi"
)

// Default subnet layout inside the VPC CIDR, expressed as /24 netnums.
var (
	defaultPrivateSubnetNetnums = []int{1, 2, 3}
	defaultPublicSubnetNetnums  = []int{101, 102, 103}
)

// defaultSubnetPrefixLen is the size of every derived default subnet.
const defaultSubnetPrefixLen = 24

// Secondary ranges of the GKE node subnet.
const (
	GKEPodsRangeCIDR     = "10.1.0.0/16"
	GKEServicesRangeCIDR = "10.2.0.0/20"
)

// Default node pool synthesized when no nodePools override is supplied.
const (
	defaultPoolName        = "default"
	defaultPoolMinSize     = 1
	defaultPoolMaxSize     = 5
	defaultPoolDesiredSize = 2
	defaultPoolDiskSizeGB  = 20
)

// Keys lists every recognized configuration key in a stable order.
var Keys = []string{
	KeyCloudProvider,
	KeyEnvironment,
	KeyProjectName,
	KeyRegion,
	KeyKubernetesVersion,
	KeyVPCCIDR,
	KeyPrivateSubnets,
	KeyPublicSubnets,
	KeyNodePools,
	KeyTags,
	KeyAWSPrivateCluster,
	KeyAWSEnableEBSCSI,
	KeyGCPProject,
	KeyGCPPrivateCluster,
	KeyGCPEnableWorkloadIdentity,
	KeyGCPZonalCluster,
	KeyGCPZone,
	KeyAzureResourceGroup,
	KeyAzureSubscription,
	KeyAzureEnableAD,
}
