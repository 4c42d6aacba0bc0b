package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// WaitForReadyNodes polls until at least want nodes are Ready or the
// timeout expires.
func (c *Client) WaitForReadyNodes(ctx context.Context, want int, interval, timeout time.Duration) (*Health, error) {
	var last *Health
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		h, err := c.Probe(ctx)
		if err != nil {
			// API server may still be coming up.
			return false, nil
		}
		last = h
		return h.ReadyNodes() >= want, nil
	})
	if err != nil {
		if last != nil {
			return last, fmt.Errorf("timed out waiting for %d ready nodes (%s): %w", want, last, err)
		}
		return nil, fmt.Errorf("timed out waiting for %d ready nodes: %w", want, err)
	}
	return last, nil
}
