// Package deploytest provides shared in-memory fakes for the deployment
// capability interfaces, plus a tenant configuration fixture. Fakes record
// every call so tests can assert ordering and arguments; failure injection
// is a field per method.
package deploytest

import (
	"context"
	"strings"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/deploy"
)

// TenantConfig returns a complete, valid tenant configuration fixture.
func TenantConfig() *config.Config {
	cfg := &config.Config{
		TenantName:       "Acme Corp",
		Slug:             "acme",
		Environment:      "prod",
		Region:           "eu-central-1",
		CredentialMode:   config.CredentialModeProfile,
		Profile:          "acme-prod",
		PublicBucket:     "acme-public",
		PrivateBucket:    "acme-private",
		DBUsername:       "acme",
		DBPassword:       "s3cret",
		AppSecret:        "app-secret",
		JWTSecret:        "jwt-secret",
		BackendImageTag:  "v1.4.0",
		FunctionImageTag: "v1.4.0",
	}
	cfg.ApplyDefaults()
	return cfg
}

// RecordingObserver collects events and progress lines for assertions.
type RecordingObserver struct {
	Events []deploy.Event
	Lines  []string
}

func (r *RecordingObserver) Printf(format string, v ...any) {
	r.Lines = append(r.Lines, format)
}

func (r *RecordingObserver) Event(e deploy.Event) {
	r.Events = append(r.Events, e)
}

func (r *RecordingObserver) WithFields(map[string]string) deploy.Observer {
	return r
}

// EventsOf returns every recorded event of the given type.
func (r *RecordingObserver) EventsOf(t deploy.EventType) []deploy.Event {
	var out []deploy.Event
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ApplyCall records one Provider.Apply invocation.
type ApplyCall struct {
	VarFile string
	Targets []string
}

// FakeProvider implements deploy.Provider in memory.
type FakeProvider struct {
	InitCalls  int
	Workspaces []string
	Applies    []ApplyCall
	Destroys   []string

	OutputValues map[string]string

	InitErr      error
	WorkspaceErr error
	ApplyErr     error
	DestroyErr   error
	OutputsErr   error
}

func (f *FakeProvider) Init(context.Context) error {
	f.InitCalls++
	return f.InitErr
}

func (f *FakeProvider) SelectWorkspace(_ context.Context, name string) error {
	f.Workspaces = append(f.Workspaces, name)
	return f.WorkspaceErr
}

func (f *FakeProvider) Apply(_ context.Context, varFile string, targets ...string) error {
	f.Applies = append(f.Applies, ApplyCall{VarFile: varFile, Targets: targets})
	return f.ApplyErr
}

func (f *FakeProvider) Destroy(_ context.Context, varFile string) error {
	f.Destroys = append(f.Destroys, varFile)
	return f.DestroyErr
}

func (f *FakeProvider) Outputs(context.Context) (map[string]string, error) {
	if f.OutputsErr != nil {
		return nil, f.OutputsErr
	}
	return f.OutputValues, nil
}

// FakeRegistry implements deploy.Registry in memory. Images is keyed by
// "repository:tag".
type FakeRegistry struct {
	Repos  map[string]bool
	Images map[string]bool
	Auth   deploy.RegistryAuth

	RepoQueries  []string
	ImageQueries []string

	RepoErr  error
	ImageErr error
	AuthErr  error
}

func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{
		Repos:  make(map[string]bool),
		Images: make(map[string]bool),
		Auth: deploy.RegistryAuth{
			Username: "AWS",
			Password: "token",
			Endpoint: "https://123456789012.dkr.ecr.eu-central-1.amazonaws.com",
		},
	}
}

func (f *FakeRegistry) RepositoryExists(_ context.Context, repository string) (bool, error) {
	f.RepoQueries = append(f.RepoQueries, repository)
	if f.RepoErr != nil {
		return false, f.RepoErr
	}
	return f.Repos[repository], nil
}

func (f *FakeRegistry) ImageExists(_ context.Context, repository, tag string) (bool, error) {
	f.ImageQueries = append(f.ImageQueries, repository+":"+tag)
	if f.ImageErr != nil {
		return false, f.ImageErr
	}
	return f.Images[repository+":"+tag], nil
}

func (f *FakeRegistry) AuthToken(context.Context) (deploy.RegistryAuth, error) {
	if f.AuthErr != nil {
		return deploy.RegistryAuth{}, f.AuthErr
	}
	return f.Auth, nil
}

// LoginCall records one ImageBuilder.Login invocation.
type LoginCall struct {
	Server   string
	Username string
}

// PushCall records one ImageBuilder.Push invocation.
type PushCall struct {
	Local  string
	Remote string
}

// FakeBuilder implements deploy.ImageBuilder in memory. A successful Push
// marks the remote reference present in Registry when one is attached, so
// the push-then-verify flow behaves like the real registry.
type FakeBuilder struct {
	Logins []LoginCall
	Builds []deploy.BuildOptions
	Pushes []PushCall

	// Registry, when set, has the image recorded on push.
	Registry *FakeRegistry

	// DropPushes suppresses registry recording: pushes exit zero but the
	// artifact never appears.
	DropPushes bool

	LoginErr error
	BuildErr error
	PushErr  error
}

func (f *FakeBuilder) Login(_ context.Context, server, username, _ string) error {
	f.Logins = append(f.Logins, LoginCall{Server: server, Username: username})
	return f.LoginErr
}

func (f *FakeBuilder) Build(_ context.Context, opts deploy.BuildOptions) (string, error) {
	f.Builds = append(f.Builds, opts)
	if f.BuildErr != nil {
		return "", f.BuildErr
	}
	return opts.LocalTag, nil
}

func (f *FakeBuilder) Push(_ context.Context, local, remote string) error {
	f.Pushes = append(f.Pushes, PushCall{Local: local, Remote: remote})
	if f.PushErr != nil {
		return f.PushErr
	}
	if f.Registry != nil && !f.DropPushes {
		repoAndTag := remote[strings.IndexByte(remote, '/')+1:]
		f.Registry.Images[repoAndTag] = true
	}
	return nil
}

// FakeSite implements deploy.SiteBuilder in memory.
type FakeSite struct {
	Dist   string
	Builds []SiteBuild
	Err    error
}

// SiteBuild records one SiteBuilder.Build invocation.
type SiteBuild struct {
	SourceDir string
	Mode      string
}

func (f *FakeSite) Build(_ context.Context, sourceDir, mode string) (string, error) {
	f.Builds = append(f.Builds, SiteBuild{SourceDir: sourceDir, Mode: mode})
	if f.Err != nil {
		return "", f.Err
	}
	return f.Dist, nil
}

// SyncCall records one AssetStore.Sync invocation.
type SyncCall struct {
	LocalDir    string
	Bucket      string
	DeleteStale bool
}

// FakeAssets implements deploy.AssetStore in memory.
type FakeAssets struct {
	Stats deploy.SyncStats
	Syncs []SyncCall
	Err   error
}

func (f *FakeAssets) Sync(_ context.Context, localDir, bucket string, deleteStale bool) (deploy.SyncStats, error) {
	f.Syncs = append(f.Syncs, SyncCall{LocalDir: localDir, Bucket: bucket, DeleteStale: deleteStale})
	if f.Err != nil {
		return deploy.SyncStats{}, f.Err
	}
	return f.Stats, nil
}

// FakeCDN implements deploy.CDN in memory.
type FakeCDN struct {
	Invalidated []string
	Err         error
}

func (f *FakeCDN) Invalidate(_ context.Context, distributionID string) error {
	f.Invalidated = append(f.Invalidated, distributionID)
	return f.Err
}
