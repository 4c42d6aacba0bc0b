package provisioning

import (
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/kubecloud/internal/config"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Output is set by the build phase.
	Output *ClusterOutput

	// Warnings collected by the validation phase.
	Warnings []ValidationError
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	Pulumi   *pulumi.Context
	Config   *config.ClusterConfig
	State    *State
	Observer Observer
	Metrics  *Recorder
}

// ContextOption customizes a Context.
type ContextOption func(*Context)

// WithObserver replaces the default Pulumi-backed observer.
func WithObserver(o Observer) ContextOption {
	return func(c *Context) { c.Observer = o }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(r *Recorder) ContextOption {
	return func(c *Context) { c.Metrics = r }
}

// NewContext creates a new provisioning context. Unless overridden, events
// are logged to the Pulumi engine log of ctx.
func NewContext(ctx *pulumi.Context, cfg *config.ClusterConfig, opts ...ContextOption) *Context {
	c := &Context{
		Pulumi: ctx,
		Config: cfg,
		State:  NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Observer == nil {
		c.Observer = NewLogObserver(NewPulumiLogger(ctx)).
			WithFields(map[string]string{
				"provider": cfg.Provider.String(),
				"cluster":  cfg.ClusterName,
			})
	}
	return c
}

// Declared records that a resource of the given kind was declared to the
// engine. kind is a short, provider-independent noun such as "subnet".
func (c *Context) Declared(kind, name string) {
	LogResourceDeclared(c.Observer, string(c.Config.Provider), kind, name)
	c.Metrics.ResourceDeclared(c.Config.Provider, kind)
}
