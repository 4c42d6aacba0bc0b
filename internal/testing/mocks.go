package testing

import (
	"encoding/base64"
	"sort"
	"sync"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Resource type tokens asserted on by builder tests.
const (
	TypeVPC                   = "aws:ec2/vpc:Vpc"
	TypeInternetGateway       = "aws:ec2/internetGateway:InternetGateway"
	TypeSubnet                = "aws:ec2/subnet:Subnet"
	TypeEIP                   = "aws:ec2/eip:Eip"
	TypeNATGateway            = "aws:ec2/natGateway:NatGateway"
	TypeRouteTable            = "aws:ec2/routeTable:RouteTable"
	TypeRouteTableAssociation = "aws:ec2/routeTableAssociation:RouteTableAssociation"
	TypeIAMRole               = "aws:iam/role:Role"
	TypeRolePolicyAttachment  = "aws:iam/rolePolicyAttachment:RolePolicyAttachment"
	TypeEKSAddon              = "aws:eks/addon:Addon"
	TypeEKSCluster            = "eks:index:Cluster"
	TypeEKSManagedNodeGroup   = "eks:index:ManagedNodeGroup"

	TypeGCPNetwork    = "gcp:compute/network:Network"
	TypeGCPSubnetwork = "gcp:compute/subnetwork:Subnetwork"
	TypeGCPRouter     = "gcp:compute/router:Router"
	TypeGCPRouterNat  = "gcp:compute/routerNat:RouterNat"
	TypeGKECluster    = "gcp:container/cluster:Cluster"
	TypeGKENodePool   = "gcp:container/nodePool:NodePool"

	TypeAzureResourceGroup = "azure-native:resources:ResourceGroup"
	TypeAzureVNet          = "azure-native:network:VirtualNetwork"
	TypeAzureSubnet        = "azure-native:network:Subnet"
	TypeAzureIdentity      = "azure-native:managedidentity:UserAssignedIdentity"
	TypeAKSCluster         = "azure-native:containerservice:ManagedCluster"
	TypeAKSAgentPool       = "azure-native:containerservice:AgentPool"
)

// Invoke tokens stubbed by the Monitor.
const (
	InvokeAvailabilityZones = "aws:index/getAvailabilityZones:getAvailabilityZones"
	InvokeAKSCredentials    = "azure-native:containerservice:listManagedClusterUserCredentials"
)

// Canned provider responses.
const (
	EKSKubeconfigJSON = `{"apiVersion":"v1","kind":"Config","current-context":"aws",` +
		`"clusters":[{"name":"kubernetes","cluster":{"server":"https://ABC.gr7.us-east-1.eks.amazonaws.com","certificate-authority-data":"Q0E="}}],` +
		`"contexts":[{"name":"aws","context":{"cluster":"kubernetes","user":"aws"}}],` +
		`"users":[{"name":"aws","user":{"exec":{"apiVersion":"client.authentication.k8s.io/v1beta1","command":"aws"}}}]}`

	GKEEndpoint = "34.1.2.3"
	GKECA       = "Q0E="

	AKSFQDN       = "k8s-cluster-dev-abc123.hcp.westeurope.azmk8s.io"
	AKSKubeconfig = "apiVersion: v1\nkind: Config\ncurrent-context: k8s-cluster-dev\n"
)

// AvailabilityZones are returned by the availability zone invoke stub.
var AvailabilityZones = []string{"us-east-1a", "us-east-1b", "us-east-1c"}

// RegisteredResource is one resource declaration seen by the Monitor.
type RegisteredResource struct {
	Type   string
	Name   string
	Inputs resource.PropertyMap
}

// Monitor is a pulumi.MockResourceMonitor that records every declared
// resource. Outputs echo the inputs, extended with the per-type values in
// Outputs and a name defaulting to the logical name. Invokes return the
// per-token values in Invokes.
type Monitor struct {
	mu        sync.Mutex
	resources []RegisteredResource

	Outputs map[string]resource.PropertyMap
	Invokes map[string]resource.PropertyMap
}

// NewMonitor creates a Monitor with canned responses for the three providers.
func NewMonitor() *Monitor {
	return &Monitor{
		Outputs: map[string]resource.PropertyMap{
			TypeEKSCluster: resource.NewPropertyMapFromMap(map[string]any{
				"kubeconfigJson": EKSKubeconfigJSON,
			}),
			TypeGKECluster: resource.NewPropertyMapFromMap(map[string]any{
				"endpoint": GKEEndpoint,
				"masterAuth": map[string]any{
					"clusterCaCertificate": GKECA,
				},
			}),
			TypeAKSCluster: resource.NewPropertyMapFromMap(map[string]any{
				"fqdn": AKSFQDN,
			}),
		},
		Invokes: map[string]resource.PropertyMap{
			InvokeAvailabilityZones: resource.NewPropertyMapFromMap(map[string]any{
				"names": AvailabilityZones,
				"id":    "us-east-1",
			}),
			InvokeAKSCredentials: resource.NewPropertyMapFromMap(map[string]any{
				"kubeconfigs": []any{
					map[string]any{
						"name":  "clusterUser",
						"value": base64.StdEncoding.EncodeToString([]byte(AKSKubeconfig)),
					},
				},
			}),
		},
	}
}

// NewResource implements pulumi.MockResourceMonitor.
func (m *Monitor) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resources = append(m.resources, RegisteredResource{
		Type:   args.TypeToken,
		Name:   args.Name,
		Inputs: args.Inputs,
	})

	outputs := args.Inputs.Copy()
	for k, v := range m.Outputs[args.TypeToken] {
		outputs[k] = v
	}
	// Azure resources take their name as <type>Name and report it as name.
	if _, ok := outputs["name"]; !ok {
		outputs["name"] = resource.NewStringProperty(args.Name)
	}
	return args.Name + "-id", outputs, nil
}

// Call implements pulumi.MockResourceMonitor.
func (m *Monitor) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if out, ok := m.Invokes[args.Token]; ok {
		return out.Copy(), nil
	}
	return resource.PropertyMap{}, nil
}

// Run executes program against the Monitor.
func (m *Monitor) Run(program pulumi.RunFunc) error {
	return pulumi.RunErr(program, pulumi.WithMocks("kubecloud", "test", m))
}

// Resources returns every recorded resource of the given type, sorted by name.
func (m *Monitor) Resources(typeToken string) []RegisteredResource {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []RegisteredResource
	for _, r := range m.resources {
		if r.Type == typeToken {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns how many resources of the given type were declared.
func (m *Monitor) Count(typeToken string) int {
	return len(m.Resources(typeToken))
}

// Resource returns the recorded resource with the given type and name.
func (m *Monitor) Resource(typeToken, name string) (RegisteredResource, bool) {
	for _, r := range m.Resources(typeToken) {
		if r.Name == name {
			return r, true
		}
	}
	return RegisteredResource{}, false
}

// Types returns the set of declared type tokens.
func (m *Monitor) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool)
	var out []string
	for _, r := range m.resources {
		if !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, r.Type)
		}
	}
	sort.Strings(out)
	return out
}
