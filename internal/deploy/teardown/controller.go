// Package teardown drives destruction of a tenant's full resource graph.
//
// Teardown reuses the tenant's persisted variable set so the provider
// destroys exactly what was deployed. When the variable set is gone the
// controller falls back to a degraded mode: a default variable set scoped
// only by the tenant slug, which may miss resources whose names were
// customized after deployment.
package teardown

import (
	"context"
	"fmt"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/deploy"
	"github.com/tenantctl/tenantctl/internal/varset"
)

// Controller executes a tenant teardown against the provider.
type Controller struct {
	provider deploy.Provider
	observer deploy.Observer

	// varDir is where tenant variable sets are persisted.
	varDir string
}

// NewController creates a teardown controller.
func NewController(provider deploy.Provider, observer deploy.Observer, varDir string) *Controller {
	return &Controller{
		provider: provider,
		observer: observer,
		varDir:   varDir,
	}
}

// Destroy tears down the tenant identified by slug. The caller has already
// passed the confirmation gate; no prompting happens here.
func (c *Controller) Destroy(ctx context.Context, slug string) error {
	varFile, err := c.resolveVarFile(slug)
	if err != nil {
		return err
	}

	if err := c.provider.Init(ctx); err != nil {
		return fmt.Errorf("provider init failed: %w", err)
	}
	if err := c.provider.SelectWorkspace(ctx, slug); err != nil {
		return fmt.Errorf("workspace selection failed: %w", err)
	}
	if err := c.provider.Destroy(ctx, varFile); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	c.observer.Event(deploy.Event{
		Type:     deploy.EventResourceDestroyed,
		Phase:    "teardown",
		Resource: slug,
		Message:  "resource graph destroyed",
	})
	return nil
}

// resolveVarFile returns the tenant's persisted variable set, or writes and
// returns a degraded slug-scoped default set when none exists.
func (c *Controller) resolveVarFile(slug string) (string, error) {
	if varset.Exists(c.varDir, slug) {
		return varset.Path(c.varDir, slug), nil
	}

	deploy.Warn(c.observer, "teardown",
		"no variable set found for tenant %q; destroying with slug-scoped defaults, resources with customized names may be left behind", slug)

	fallback := fallbackConfig(slug)
	path, err := varset.Write(fallback, c.varDir)
	if err != nil {
		return "", fmt.Errorf("failed to write fallback variable set: %w", err)
	}
	return path, nil
}

// fallbackConfig builds the minimal configuration whose rendered variable
// set identifies the tenant's resources by slug alone.
func fallbackConfig(slug string) *config.Config {
	cfg := &config.Config{
		TenantName: slug,
		Slug:       slug,
	}
	cfg.ApplyDefaults()
	return cfg
}
