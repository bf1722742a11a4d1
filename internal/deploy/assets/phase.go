// Package assets implements the asset publish phase: the static site is
// built for the tenant's environment, synced into the public bucket, and
// the CDN cache is invalidated when a distribution exists.
package assets

import (
	"fmt"
	"path/filepath"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/deploy"
)

// Phase implements deploy.Phase.
type Phase struct{}

// NewPhase creates the asset publish phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements deploy.Phase.
func (p *Phase) Name() string {
	return "asset-publish"
}

// Run builds the frontend, syncs the output into the public bucket with
// stale-object deletion, and invalidates the CDN cache. The phase requires
// the convergence endpoints so assets never land in a bucket that was not
// fully converged this run.
func (p *Phase) Run(ctx *deploy.Context) error {
	if ctx.State.LoadBalancerDNS == "" || ctx.State.CDNDomain == "" {
		return fmt.Errorf("infrastructure endpoints not available")
	}

	sourceDir := filepath.Join(ctx.ProjectDir, config.FrontendSourceDir)
	distDir, err := ctx.Site.Build(ctx, sourceDir, ctx.Config.Environment)
	if err != nil {
		return fmt.Errorf("site build failed: %w", err)
	}

	stats, err := ctx.Assets.Sync(ctx, distDir, ctx.Config.PublicBucket, true)
	if err != nil {
		return fmt.Errorf("asset sync failed: %w", err)
	}
	ctx.Observer.Event(deploy.Event{
		Type:     deploy.EventAssetsSynced,
		Phase:    p.Name(),
		Resource: ctx.Config.PublicBucket,
		Message:  fmt.Sprintf("%d uploaded, %d stale removed", stats.Uploaded, stats.Deleted),
	})

	if ctx.State.CDNID == "" {
		ctx.Observer.Printf("[%s] no distribution id, skipping cache invalidation", p.Name())
		return nil
	}
	if err := ctx.CDN.Invalidate(ctx, ctx.State.CDNID); err != nil {
		return fmt.Errorf("cache invalidation failed: %w", err)
	}
	ctx.Observer.Event(deploy.Event{
		Type:     deploy.EventCacheInvalidated,
		Phase:    p.Name(),
		Resource: ctx.State.CDNID,
		Message:  "cache invalidation issued",
	})
	return nil
}
