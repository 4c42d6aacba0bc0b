package naming

import (
	"fmt"
	"regexp"
	"strings"
)

// Naming functions for cluster resources.
// Network resources follow {cluster}-{type}; indexed resources append the
// zero-based index.

func VPC(cluster string) string {
	return fmt.Sprintf("%s-vpc", cluster)
}

func InternetGateway(cluster string) string {
	return fmt.Sprintf("%s-igw", cluster)
}

func PublicSubnet(cluster string, index int) string {
	return fmt.Sprintf("%s-public-%d", cluster, index)
}

func PrivateSubnet(cluster string, index int) string {
	return fmt.Sprintf("%s-private-%d", cluster, index)
}

func NATElasticIP(cluster string) string {
	return fmt.Sprintf("%s-nat-eip", cluster)
}

func NAT(cluster string) string {
	return fmt.Sprintf("%s-nat", cluster)
}

func RouteTable(cluster, tier string) string {
	return fmt.Sprintf("%s-%s-rt", cluster, tier)
}

// RouteTableAssociation names the association of the index-th subnet of a
// tier with that tier's route table.
func RouteTableAssociation(cluster, tier string, index int) string {
	return fmt.Sprintf("%s-%s-rta-%d", cluster, tier, index)
}

func Subnet(cluster string) string {
	return fmt.Sprintf("%s-subnet", cluster)
}

func Router(cluster string) string {
	return fmt.Sprintf("%s-router", cluster)
}

func VNet(cluster string) string {
	return fmt.Sprintf("%s-vnet", cluster)
}

func AKSSubnet(cluster string) string {
	return fmt.Sprintf("%s-aks-subnet", cluster)
}

func Identity(cluster string) string {
	return fmt.Sprintf("%s-identity", cluster)
}

// GKEContext returns the kubeconfig context name gcloud uses for a cluster.
func GKEContext(project, location, cluster string) string {
	return fmt.Sprintf("gke_%s_%s_%s", project, location, cluster)
}

// AzurePoolNameMaxLen is the longest agent pool name AKS accepts.
const AzurePoolNameMaxLen = 12

var azurePoolInvalid = regexp.MustCompile(`[^a-z0-9]`)

// AzurePoolName converts a pool name into an AKS agent pool name: it is cut
// to 12 characters, lowercased, and stripped of everything outside
// [a-z0-9]. Truncation happens first, so the result may be shorter than 12.
func AzurePoolName(name string) string {
	if r := []rune(name); len(r) > AzurePoolNameMaxLen {
		name = string(r[:AzurePoolNameMaxLen])
	}
	return azurePoolInvalid.ReplaceAllString(strings.ToLower(name), "")
}
