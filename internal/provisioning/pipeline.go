package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially and advances the
// run to StageDone. The first failing phase moves the run to StageFailed.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Observer.Printf("[%s] starting", name)

		err := phase.Provision(ctx)
		elapsed := time.Since(phaseStart)
		ctx.State.PhaseDurations[phase.Name()] = elapsed
		ctx.Metrics.ObservePhase(phase.Name(), elapsed, err)

		if err != nil {
			ctx.State.Fail()
			LogPhaseFailed(ctx.Observer, phase.Name(), err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		if r, ok := phase.(StageReacher); ok && r.Reaches() != "" {
			if err := ctx.State.Advance(r.Reaches()); err != nil {
				ctx.State.Fail()
				return fmt.Errorf("%s phase: %w", phase.Name(), err)
			}
		}

		ctx.Observer.Printf("[%s] completed in %v", name, elapsed.Round(time.Millisecond))
	}

	if err := ctx.State.Advance(StageDone); err != nil {
		ctx.State.Fail()
		return err
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
