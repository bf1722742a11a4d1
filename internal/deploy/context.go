package deploy

import (
	"context"

	"github.com/tenantctl/tenantctl/internal/config"
)

// Context wraps all dependencies and state needed by a deployment phase.
type Context struct {
	context.Context
	Config *config.Config
	State  *State

	Provider Provider
	Registry Registry
	Builder  ImageBuilder
	Site     SiteBuilder
	Assets   AssetStore
	CDN      CDN

	Observer Observer

	// VarFile is the path of the tenant's materialized variable set.
	VarFile string

	// RegistryHost is the registry hostname derived from the verified
	// account identity and region. Set before any phase runs.
	RegistryHost string

	// ProjectDir is the root the unit source paths are resolved against.
	ProjectDir string
}

// NewContext creates a deployment context with an empty state and a console
// observer.
func NewContext(ctx context.Context, cfg *config.Config) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Observer: NewConsoleObserver(),
	}
}
