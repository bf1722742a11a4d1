package deploy

import "context"

// Phase defines one ordered stage of the deployment pipeline.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Run executes the phase. Preconditions are checked against ctx.State
	// before any external call; results are written back into ctx.State.
	Run(ctx *Context) error
}

// Provider is the infrastructure graph provider contract: it converges the
// tenant's declarative resource graph from a persisted variable set.
type Provider interface {
	// Init prepares the provider working directory for this run.
	Init(ctx context.Context) error

	// SelectWorkspace switches to (creating if needed) the named isolation
	// workspace. One workspace per tenant slug.
	SelectWorkspace(ctx context.Context, name string) error

	// Apply converges the resource graph using the variable set. With
	// targets it converges only the named subset, used to bootstrap the
	// registry resources before anything else.
	Apply(ctx context.Context, varFile string, targets ...string) error

	// Destroy tears down everything the variable set describes.
	Destroy(ctx context.Context, varFile string) error

	// Outputs returns the provider's root outputs as strings.
	Outputs(ctx context.Context) (map[string]string, error)
}

// RegistryAuth carries credentials for authenticating an image push.
type RegistryAuth struct {
	Username string
	Password string
	// Endpoint is the registry server URL.
	Endpoint string
}

// Registry answers existence queries against the image registry,
// independently of the push tool's exit status.
type Registry interface {
	// RepositoryExists reports whether the repository has been created.
	RepositoryExists(ctx context.Context, repository string) (bool, error)

	// ImageExists reports whether the exact repository+tag combination is
	// present and retrievable.
	ImageExists(ctx context.Context, repository, tag string) (bool, error)

	// AuthToken returns short-lived push credentials for the registry.
	AuthToken(ctx context.Context) (RegistryAuth, error)
}

// BuildOptions configures one container image build.
type BuildOptions struct {
	// SourceDir is the build context directory.
	SourceDir string
	// BuildFile is the build instruction file; empty means the tool's
	// default lookup.
	BuildFile string
	// Platform is the target platform; empty means the host platform.
	Platform string
	// LocalTag names the produced local image.
	LocalTag string
}

// ImageBuilder is the container build/publish tool contract.
type ImageBuilder interface {
	// Login authenticates the tool against a registry server.
	Login(ctx context.Context, server, username, password string) error

	// Build produces a local image and returns its reference.
	Build(ctx context.Context, opts BuildOptions) (string, error)

	// Push publishes a local image under a remote reference.
	Push(ctx context.Context, localImage, remoteRef string) error
}

// SiteBuilder is the static site builder contract.
type SiteBuilder interface {
	// Build compiles the frontend source in the given mode and returns the
	// directory holding the deployable assets.
	Build(ctx context.Context, sourceDir, mode string) (string, error)
}

// SyncStats summarizes one asset sync.
type SyncStats struct {
	Uploaded int
	Deleted  int
}

// AssetStore publishes built assets into the tenant's public bucket.
type AssetStore interface {
	// Sync uploads every file under localDir and, when deleteStale is set,
	// removes remote objects that no longer exist locally.
	Sync(ctx context.Context, localDir, bucket string, deleteStale bool) (SyncStats, error)
}

// CDN invalidates cached content after an asset publish.
type CDN interface {
	Invalidate(ctx context.Context, distributionID string) error
}
