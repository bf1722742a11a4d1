package deploy

import (
	"fmt"
	"time"
)

// RunPhases executes all deployment phases sequentially. The first failing
// phase aborts the run; completed phases are not rolled back.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting deployment of tenant %s with %d phases...", ctx.Config.Slug, len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		ctx.Observer.Printf("[%s (%d/%d)] starting", phase.Name(), i+1, len(phases))
		ctx.Observer.Event(Event{Type: EventPhaseStarted, Phase: phase.Name(), Message: "starting"})

		if err := phase.Run(ctx); err != nil {
			ctx.Observer.Event(Event{Type: EventPhaseFailed, Phase: phase.Name(), Message: fmt.Sprintf("failed: %v", err)})
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		ctx.Observer.Event(Event{
			Type:    EventPhaseCompleted,
			Phase:   phase.Name(),
			Message: fmt.Sprintf("completed in %v", time.Since(phaseStart).Round(time.Millisecond)),
		})
	}

	ctx.Observer.Printf("Deployment completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
