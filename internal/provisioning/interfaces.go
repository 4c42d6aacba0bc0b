package provisioning

import (
	"errors"
	"fmt"

	"github.com/imamik/kubecloud/internal/config"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Builder declares the resource graph of one provider and returns the
// uniform cluster output. Builders only declare resources; the engine
// resolves and creates them.
type Builder func(ctx *Context) (*ClusterOutput, error)

// Topology binds a Builder to the provider it serves.
type Topology struct {
	Provider config.Provider

	// FoldFirstPool reports whether the first node pool is declared as
	// part of the cluster resource (AWS, Azure) instead of as a separate
	// pool resource (GCP). Each Build declares its pools accordingly; pool
	// accounting reads the flag rather than the provider.
	FoldFirstPool bool

	Build Builder
}

// ErrMissingProviderBlock is returned when a builder runs without the
// provider-specific configuration block it requires.
var ErrMissingProviderBlock = errors.New("missing provider configuration block")

// MissingBlockError names the block a builder could not find.
func MissingBlockError(p config.Provider) error {
	return fmt.Errorf("%s builder: %w %q", p, ErrMissingProviderBlock, p)
}
