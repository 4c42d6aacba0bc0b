package testing

import (
	"encoding/json"
	"maps"
	"testing"

	"github.com/imamik/kubecloud/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// It assembles raw key/value input and runs it through config.Load, so
// tests exercise the same defaulting as a real deployment.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	input config.MapSource
}

// NewConfigBuilder creates a builder with the minimal valid input for
// provider: environment "dev", a provider-appropriate region, and the
// provider-scoped required keys.
func NewConfigBuilder(provider config.Provider) *ConfigBuilder {
	input := config.MapSource{
		config.KeyCloudProvider: provider.String(),
		config.KeyEnvironment:   "dev",
	}
	switch provider {
	case config.ProviderAWS:
		input[config.KeyRegion] = "us-east-1"
	case config.ProviderGCP:
		input[config.KeyRegion] = "europe-west1"
		input[config.KeyGCPProject] = "proj-1"
	case config.ProviderAzure:
		input[config.KeyRegion] = "westeurope"
		input[config.KeyAzureResourceGroup] = "rg-1"
	}
	return &ConfigBuilder{input: input}
}

// With sets a raw input key.
func (b *ConfigBuilder) With(key, value string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.input[key] = value
	return newBuilder
}

// Without removes a raw input key.
func (b *ConfigBuilder) Without(key string) *ConfigBuilder {
	newBuilder := b.clone()
	delete(newBuilder.input, key)
	return newBuilder
}

// WithRegion sets the region.
func (b *ConfigBuilder) WithRegion(region string) *ConfigBuilder {
	return b.With(config.KeyRegion, region)
}

// WithNodePools replaces the default pool with pools.
func (b *ConfigBuilder) WithNodePools(pools ...config.NodePoolConfig) *ConfigBuilder {
	data, err := json.Marshal(pools)
	if err != nil {
		panic(err)
	}
	return b.With(config.KeyNodePools, string(data))
}

// Source returns a copy of the raw input.
func (b *ConfigBuilder) Source() config.MapSource {
	return b.clone().input
}

// Build loads the config and fails the test on error.
func (b *ConfigBuilder) Build(t testing.TB) *config.ClusterConfig {
	t.Helper()
	cfg, err := config.Load(b.Source())
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}
	return cfg
}

// clone creates a deep copy of the builder for immutability.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	input := make(config.MapSource, len(b.input))
	maps.Copy(input, b.input)
	return &ConfigBuilder{input: input}
}

// Pool returns a node pool with the given bounds and medium instances.
func Pool(name string, minSize, maxSize, desired int) config.NodePoolConfig {
	return config.NodePoolConfig{
		Name:         name,
		InstanceSize: config.SizeMedium,
		MinSize:      minSize,
		MaxSize:      maxSize,
		DesiredSize:  desired,
		DiskSizeGB:   50,
	}
}
