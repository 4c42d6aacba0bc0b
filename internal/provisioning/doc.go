// Package provisioning provides shared types, interfaces, and orchestration for cluster provisioning.
//
// # Subpackages
//
//   - aws/: VPC, NAT, EKS control plane and managed node groups
//   - gcp/: VPC network, Cloud NAT, GKE cluster and node pools
//   - azure/: Resource group, VNet, managed identity, AKS and agent pools
//
// The three builders share no code with each other. Each is a Builder over
// the same Context that returns the same ClusterOutput.
//
// # Core Types
//
// Context carries the Pulumi context, the validated configuration, state, an
// Observer and a metrics Recorder.
// Phase defines a provisioning step with Name() and Provision() methods.
// State accumulates results from each phase (the cluster output).
package provisioning
