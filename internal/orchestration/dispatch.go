package orchestration

import (
	"errors"
	"fmt"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/provisioning"
	"github.com/imamik/kubecloud/internal/provisioning/aws"
	"github.com/imamik/kubecloud/internal/provisioning/azure"
	"github.com/imamik/kubecloud/internal/provisioning/gcp"
)

// ErrUnknownProvider is returned by Dispatch for a provider without a
// topology.
var ErrUnknownProvider = errors.New("unknown cloud provider")

var topologies = map[config.Provider]func() provisioning.Topology{
	config.ProviderAWS:   aws.Topology,
	config.ProviderGCP:   gcp.Topology,
	config.ProviderAzure: azure.Topology,
}

// Dispatch selects the topology builder for a provider.
func Dispatch(p config.Provider) (provisioning.Topology, error) {
	topology, ok := topologies[p]
	if !ok {
		return provisioning.Topology{}, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return topology(), nil
}
