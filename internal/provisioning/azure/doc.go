// Package azure declares an AKS cluster with its resource group, virtual
// network and managed identity.
//
// AKS agent pool names must match ^[a-z0-9]{1,12}$, so every pool name is
// passed through naming.AzurePoolName before it reaches the API.
package azure
