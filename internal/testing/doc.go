// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for raw configuration input, loaded through config.Load
//   - Monitor: Recording Pulumi mock monitor with canned outputs for EKS, GKE and AKS
//   - Prop, Strings, StringMap, Objects: Accessors for recorded resource inputs
//
// Usage:
//
//	cfg := testing.NewConfigBuilder(config.ProviderGCP).
//	    WithRegion("europe-west1").
//	    Build(t)
//
//	mon := testing.NewMonitor()
//	err := mon.Run(func(ctx *pulumi.Context) error { ... })
//	vpcs := mon.Resources(testing.TypeVPC)
package testing
