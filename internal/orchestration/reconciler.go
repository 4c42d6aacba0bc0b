package orchestration

import (
	"fmt"
	"time"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
	"github.com/imamik/kubecloud/internal/provisioning"
)

// Reconciler turns stack configuration into a declared resource graph.
type Reconciler struct {
	observer provisioning.Observer
	metrics  *provisioning.Recorder
	source   config.Source
}

// Option customizes a Reconciler.
type Option func(*Reconciler)

// WithObserver routes provisioning events to o instead of the engine log.
func WithObserver(o provisioning.Observer) Option {
	return func(r *Reconciler) { r.observer = o }
}

// WithMetrics records declared resources and the program duration on rec.
func WithMetrics(rec *provisioning.Recorder) Option {
	return func(r *Reconciler) { r.metrics = rec }
}

// WithSource reads configuration from src instead of the stack config.
func WithSource(src config.Source) Option {
	return func(r *Reconciler) { r.source = src }
}

// NewReconciler creates a new orchestration reconciler.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Program returns the reconciler as a Pulumi program.
func (r *Reconciler) Program() pulumi.RunFunc {
	return r.Reconcile
}

// Reconcile loads the configuration, runs the preflight and build phases
// and exports the stack outputs.
func (r *Reconciler) Reconcile(ctx *pulumi.Context) (err error) {
	start := time.Now()
	defer func() { r.metrics.ObserveOperation("program", start, err) }()

	src := r.source
	if src == nil {
		src = config.NewStackSource(ctx)
	}
	cfg, err := config.Load(src)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	topology, err := Dispatch(cfg.Provider)
	if err != nil {
		return err
	}

	opts := []provisioning.ContextOption{provisioning.WithMetrics(r.metrics)}
	if r.observer != nil {
		opts = append(opts, provisioning.WithObserver(r.observer))
	}
	pCtx := provisioning.NewContext(ctx, cfg, opts...)

	phases := []provisioning.Phase{
		provisioning.NewValidationPhase(),
		provisioning.NewBuildPhase(topology),
	}
	if err := provisioning.RunPhases(pCtx, phases); err != nil {
		return err
	}

	pCtx.State.Output.Export(pCtx)
	return nil
}

// Run is the Pulumi program with default settings.
func Run(ctx *pulumi.Context) error {
	return NewReconciler().Reconcile(ctx)
}
