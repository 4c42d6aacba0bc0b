package provisioning

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/kubecloud/internal/config"
)

// Recorder collects provisioning metrics on its own registry. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	resourcesDeclared *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		resourcesDeclared: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "kubecloud",
				Name:      "resources_declared_total",
				Help:      "Total number of resources declared to the engine by provider and kind",
			},
			[]string{"provider", "kind"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "kubecloud",
				Name:      "operation_duration_seconds",
				Help:      "Duration of stack operations in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~68min
			},
			[]string{"operation", "result"},
		),
	}
	r.registry.MustRegister(r.resourcesDeclared, r.operationDuration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ResourceDeclared counts one declared resource.
func (r *Recorder) ResourceDeclared(provider config.Provider, kind string) {
	if r == nil {
		return
	}
	r.resourcesDeclared.WithLabelValues(provider.String(), kind).Inc()
}

// ObserveOperation records the duration of a stack operation such as "up".
func (r *Recorder) ObserveOperation(operation string, start time.Time, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.operationDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
