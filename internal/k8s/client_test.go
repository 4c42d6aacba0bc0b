package k8s

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"
	fakediscovery "k8s.io/client-go/discovery/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func node(name string, ready corev1.ConditionStatus) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeMemoryPressure, Status: corev1.ConditionFalse},
				{Type: corev1.NodeReady, Status: ready},
			},
		},
	}
}

func fakeClient(objects ...runtime.Object) (*Client, *k8sfake.Clientset) {
	clientset := k8sfake.NewSimpleClientset(objects...)
	clientset.Discovery().(*fakediscovery.FakeDiscovery).FakedServerVersion = &version.Info{GitVersion: "v1.29.3"}
	return NewClient(clientset), clientset
}

func TestNewClientFromBytes_Invalid(t *testing.T) {
	t.Parallel()
	_, err := NewClientFromBytes([]byte("not: [valid"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build kubeconfig from bytes")
}

func TestNewClientFromBytes_Valid(t *testing.T) {
	t.Parallel()
	kubeconfig := []byte(`apiVersion: v1
kind: Config
clusters:
- name: c
  cluster:
    server: https://127.0.0.1:6443
users:
- name: u
  user:
    token: abc
contexts:
- name: ctx
  context:
    cluster: c
    user: u
current-context: ctx
`)
	client, err := NewClientFromBytes(kubeconfig)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestIsNodeReady(t *testing.T) {
	t.Parallel()
	assert.True(t, isNodeReady(node("a", corev1.ConditionTrue)))
	assert.False(t, isNodeReady(node("a", corev1.ConditionFalse)))
	assert.False(t, isNodeReady(node("a", corev1.ConditionUnknown)))
	assert.False(t, isNodeReady(&corev1.Node{}))
}

func TestProbe(t *testing.T) {
	t.Parallel()
	client, _ := fakeClient(
		node("worker-b", corev1.ConditionFalse),
		node("worker-a", corev1.ConditionTrue),
		node("worker-c", corev1.ConditionTrue),
	)

	h, err := client.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v1.29.3", h.ServerVersion)
	assert.Equal(t, []NodeStatus{
		{Name: "worker-a", Ready: true},
		{Name: "worker-b", Ready: false},
		{Name: "worker-c", Ready: true},
	}, h.Nodes)
	assert.Equal(t, 2, h.ReadyNodes())
	assert.False(t, h.Healthy())
	assert.Equal(t, "server v1.29.3, 2/3 nodes ready", h.String())
}

func TestProbe_NodeListError(t *testing.T) {
	t.Parallel()
	client, clientset := fakeClient()
	clientset.PrependReactor("list", "nodes", func(k8stesting.Action) (bool, runtime.Object, error) {
		return true, nil, errors.New("forbidden")
	})

	_, err := client.Probe(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check nodes")
	assert.Contains(t, err.Error(), "forbidden")
}

func TestHealth_Healthy(t *testing.T) {
	t.Parallel()
	assert.False(t, Health{}.Healthy())
	assert.True(t, Health{Nodes: []NodeStatus{{Name: "a", Ready: true}}}.Healthy())
}

func TestWaitForReadyNodes(t *testing.T) {
	t.Parallel()
	client, _ := fakeClient(node("a", corev1.ConditionTrue), node("b", corev1.ConditionTrue))

	h, err := client.WaitForReadyNodes(context.Background(), 2, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.True(t, h.Healthy())
}

func TestWaitForReadyNodes_Timeout(t *testing.T) {
	t.Parallel()
	client, _ := fakeClient(node("a", corev1.ConditionFalse))

	h, err := client.WaitForReadyNodes(context.Background(), 1, 10*time.Millisecond, 50*time.Millisecond)
	require.Error(t, err)
	require.NotNil(t, h)
	assert.Contains(t, err.Error(), "0/1 nodes ready")
}

func TestRunParallel(t *testing.T) {
	t.Parallel()

	var count atomic.Int32
	ok := func(context.Context) error { count.Add(1); return nil }

	require.NoError(t, runParallel(context.Background(), nil))
	require.NoError(t, runParallel(context.Background(), []task{{"a", ok}, {"b", ok}}))
	assert.Equal(t, int32(2), count.Load())

	err := runParallel(context.Background(), []task{
		{"a", ok},
		{"broken", func(context.Context) error { return errors.New("boom") }},
	})
	require.Error(t, err)
	assert.Equal(t, "failed to check broken: boom", err.Error())
	assert.Equal(t, int32(3), count.Load())
}
