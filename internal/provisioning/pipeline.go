package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for _, phase := range phases {
		phaseStart := time.Now()
		LogPhaseStart(ctx.Observer, phase.Name())

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, phase.Name(), time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning declared in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// BuildPhase runs a Topology and stores its output in the state.
type BuildPhase struct {
	topology Topology
}

// NewBuildPhase creates the phase that declares the resource graph of t.
func NewBuildPhase(t Topology) *BuildPhase {
	return &BuildPhase{topology: t}
}

// Name implements the Phase interface.
func (bp *BuildPhase) Name() string {
	return string(bp.topology.Provider)
}

// Provision implements the Phase interface.
func (bp *BuildPhase) Provision(ctx *Context) error {
	out, err := bp.topology.Build(ctx)
	if err != nil {
		return err
	}
	ctx.State.Output = out
	return nil
}
