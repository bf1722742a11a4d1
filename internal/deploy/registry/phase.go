// Package registry implements the registry bootstrap phase: one registry
// repository per deployable unit, converged through the provider before
// anything is built or pushed.
package registry

import (
	"fmt"

	"github.com/tenantctl/tenantctl/internal/deploy"
)

// repositoryTarget is the provider resource address covering every unit's
// registry repository. Converging only this subset bootstraps the
// registries first; the apply is idempotent, so repositories that already
// exist never fail the phase.
const repositoryTarget = "aws_ecr_repository.units"

// Phase implements deploy.Phase.
type Phase struct{}

// NewPhase creates the registry bootstrap phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements deploy.Phase.
func (p *Phase) Name() string {
	return "registry-bootstrap"
}

// Run converges the registry subset of the resource graph, re-verifies
// every repository through the registry itself, and records the per-unit
// registry addresses for the publish phase.
func (p *Phase) Run(ctx *deploy.Context) error {
	if ctx.VarFile == "" {
		return fmt.Errorf("variable set not materialized")
	}
	if ctx.State.AccountID == "" || ctx.RegistryHost == "" {
		return fmt.Errorf("account identity not verified")
	}

	if err := ctx.Provider.Apply(ctx, ctx.VarFile, repositoryTarget); err != nil {
		return err
	}

	units := ctx.Config.Units()
	for _, unit := range units {
		exists, err := ctx.Registry.RepositoryExists(ctx, unit.Repository)
		if err != nil {
			return fmt.Errorf("failed to verify repository %s: %w", unit.Repository, err)
		}
		if !exists {
			return fmt.Errorf("repository %s not present after bootstrap", unit.Repository)
		}

		ctx.State.RegistryAddresses[unit.Name] = ctx.RegistryHost + "/" + unit.Repository
		ctx.Observer.Event(deploy.Event{
			Type:     deploy.EventResourceConverged,
			Phase:    p.Name(),
			Resource: unit.Repository,
			Message:  "repository ready",
		})
	}

	ctx.Observer.Printf("[%s] %d repositories ready", p.Name(), len(units))
	return nil
}
