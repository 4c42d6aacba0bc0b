// Package naming provides consistent naming functions for cloud resources.
//
// Resource names follow the pattern {cluster}-{type} for network resources
// (VPCs, gateways, routers, subnets). Provider-specific constraints, such as
// the 12-character lowercase alphanumeric limit on AKS agent pools, are
// applied here so the builders never format names themselves.
package naming
