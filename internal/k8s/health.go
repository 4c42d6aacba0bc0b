package k8s

import (
	"context"
	"fmt"
	"sort"
)

// Health is a point-in-time view of a cluster.
type Health struct {
	ServerVersion string
	Nodes         []NodeStatus
}

// NodeStatus is the readiness of one node.
type NodeStatus struct {
	Name  string
	Ready bool
}

// ReadyNodes counts the nodes reporting Ready.
func (h Health) ReadyNodes() int {
	n := 0
	for _, node := range h.Nodes {
		if node.Ready {
			n++
		}
	}
	return n
}

// Healthy is true when at least one node exists and every node is Ready.
func (h Health) Healthy() bool {
	return len(h.Nodes) > 0 && h.ReadyNodes() == len(h.Nodes)
}

// String renders a one-line summary.
func (h Health) String() string {
	return fmt.Sprintf("server %s, %d/%d nodes ready", h.ServerVersion, h.ReadyNodes(), len(h.Nodes))
}

// Probe queries the API server version and node readiness concurrently.
func (c *Client) Probe(ctx context.Context) (*Health, error) {
	h := &Health{}

	err := runParallel(ctx, []task{
		{name: "server version", fn: func(context.Context) error {
			v, err := c.ServerVersion()
			if err != nil {
				return err
			}
			h.ServerVersion = v
			return nil
		}},
		{name: "nodes", fn: func(ctx context.Context) error {
			nodes, err := c.ListNodes(ctx)
			if err != nil {
				return err
			}
			statuses := make([]NodeStatus, 0, len(nodes))
			for i := range nodes {
				statuses = append(statuses, NodeStatus{Name: nodes[i].Name, Ready: isNodeReady(&nodes[i])})
			}
			sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
			h.Nodes = statuses
			return nil
		}},
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}
