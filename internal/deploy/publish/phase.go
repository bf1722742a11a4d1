// Package publish implements the build and publish phase: every deployable
// unit with a source directory is built, pushed, and independently verified
// in the registry.
package publish

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tenantctl/tenantctl/internal/deploy"
	"github.com/tenantctl/tenantctl/internal/fault"
)

// targetPlatform pins image builds so a deploy from a developer laptop
// produces the same artifact the runtime expects.
const targetPlatform = "linux/amd64"

// Phase implements deploy.Phase.
type Phase struct{}

// NewPhase creates the build and publish phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements deploy.Phase.
func (p *Phase) Name() string {
	return "build-publish"
}

// Run builds and pushes every unit whose source directory exists, verifies
// each push through the registry, and records the per-unit outcome. A push
// whose artifact cannot be found in the registry fails the phase regardless
// of the push tool's exit status.
func (p *Phase) Run(ctx *deploy.Context) error {
	units := ctx.Config.Units()
	if err := ctx.State.RequireRegistryAddresses(units); err != nil {
		return err
	}

	auth, err := ctx.Registry.AuthToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain registry credentials: %w", err)
	}
	if err := ctx.Builder.Login(ctx, auth.Endpoint, auth.Username, auth.Password); err != nil {
		return fmt.Errorf("registry login failed: %w", err)
	}

	for _, unit := range units {
		sourceDir := filepath.Join(ctx.ProjectDir, unit.SourcePath)
		if _, err := os.Stat(sourceDir); os.IsNotExist(err) {
			ctx.State.Skipped[unit.Name] = true
			deploy.Warn(ctx.Observer, p.Name(), "unit %s has no source at %s, skipping", unit.Name, sourceDir)
			ctx.Observer.Event(deploy.Event{
				Type:     deploy.EventArtifactSkipped,
				Phase:    p.Name(),
				Resource: unit.Name,
				Message:  "source directory absent",
			})
			continue
		} else if err != nil {
			return fmt.Errorf("failed to inspect source for unit %s: %w", unit.Name, err)
		}

		remoteRef, err := ctx.State.ImageRef(unit)
		if err != nil {
			return err
		}

		localImage, err := ctx.Builder.Build(ctx, deploy.BuildOptions{
			SourceDir: sourceDir,
			Platform:  targetPlatform,
			LocalTag:  unit.Name + ":" + unit.Tag,
		})
		if err != nil {
			return fmt.Errorf("build failed for unit %s: %w", unit.Name, err)
		}

		if err := ctx.Builder.Push(ctx, localImage, remoteRef); err != nil {
			return fmt.Errorf("push failed for unit %s: %w", unit.Name, err)
		}
		ctx.Observer.Event(deploy.Event{
			Type:     deploy.EventArtifactPushed,
			Phase:    p.Name(),
			Resource: unit.Name,
			Message:  remoteRef,
		})

		present, err := ctx.Registry.ImageExists(ctx, unit.Repository, unit.Tag)
		if err != nil {
			return fmt.Errorf("failed to verify publish of unit %s: %w", unit.Name, err)
		}
		if !present {
			return fault.New(fault.KindPublishVerification, "verify publish",
				"unit %s: pushed artifact %s not found in registry", unit.Name, remoteRef)
		}

		ctx.State.Published[unit.Name] = true
		ctx.Observer.Event(deploy.Event{
			Type:     deploy.EventArtifactVerified,
			Phase:    p.Name(),
			Resource: unit.Name,
			Message:  remoteRef,
		})
	}

	return nil
}
