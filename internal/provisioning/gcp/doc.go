// Package gcp declares a GKE cluster and its VPC network.
//
// Unlike the EKS and AKS builders, the cluster's default node pool is
// removed right after creation and every configured pool, the first one
// included, becomes an explicit node pool.
package gcp
