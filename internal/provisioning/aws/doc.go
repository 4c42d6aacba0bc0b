// Package aws declares an EKS cluster and its VPC.
//
// The graph is: VPC, internet gateway, public and private subnets spread
// round-robin over the available zones, one NAT gateway in the first public
// subnet, a public and a private route table, the node IAM role, the EKS
// control plane with the first node pool as its default node group, and one
// managed node group per remaining pool.
package aws
