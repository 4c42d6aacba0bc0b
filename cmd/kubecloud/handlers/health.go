package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/imamik/kubecloud/internal/k8s"
	"github.com/imamik/kubecloud/internal/kubeconfig"
)

// healthPollInterval is the pause between probes while waiting.
const healthPollInterval = 10 * time.Second

// healthProber is the part of the Kubernetes client the health command uses.
type healthProber interface {
	Probe(ctx context.Context) (*k8s.Health, error)
	WaitForReadyNodes(ctx context.Context, want int, interval, timeout time.Duration) (*k8s.Health, error)
}

// Factory function variables - can be replaced in tests.
var newHealthProber = func(kubeconfig []byte) (healthProber, error) {
	return k8s.NewClientFromBytes(kubeconfig)
}

// Health connects to the cluster with the stack kubeconfig and reports the
// server version and node readiness. A positive wait polls until at least
// one node is Ready.
func Health(ctx context.Context, opts Options, wait time.Duration) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}

	outputs, err := s.engine.Outputs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stack outputs: %w", err)
	}
	doc, err := kubeconfigFrom(outputs)
	if err != nil {
		return err
	}

	if err := kubeconfig.Validate(doc); err != nil {
		return fmt.Errorf("stack kubeconfig is unusable: %w", err)
	}

	prober, err := newHealthProber([]byte(doc))
	if err != nil {
		return err
	}

	var h *k8s.Health
	if wait > 0 {
		h, err = prober.WaitForReadyNodes(ctx, 1, healthPollInterval, wait)
	} else {
		h, err = prober.Probe(ctx)
	}
	if h != nil {
		printHealth(s.cfg.ClusterName, h)
	}
	if err != nil {
		return err
	}
	if !h.Healthy() {
		return fmt.Errorf("cluster %s is not healthy: %s", s.cfg.ClusterName, h)
	}
	return nil
}

func printHealth(cluster string, h *k8s.Health) {
	fmt.Printf("Cluster %s: %s\n", cluster, h)
	for _, n := range h.Nodes {
		status := "Ready"
		if !n.Ready {
			status = "NotReady"
		}
		fmt.Printf("  %-40s %s\n", n.Name, status)
	}
}
