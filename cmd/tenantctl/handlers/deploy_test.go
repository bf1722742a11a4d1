package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/credentials"
	"github.com/tenantctl/tenantctl/internal/deploy"
	"github.com/tenantctl/tenantctl/internal/deploy/deploytest"
	"github.com/tenantctl/tenantctl/internal/fault"
	"github.com/tenantctl/tenantctl/internal/preflight"
)

const tenantYAML = `tenant_name: Acme Corp
slug: acme
environment: prod
region: eu-central-1
credential_mode: profile
profile: acme-prod
public_bucket: acme-public
private_bucket: acme-private
db_username: acme
db_password: s3cret
app_secret: app-secret
jwt_secret: jwt-secret
backend_image_tag: v1.4.0
function_image_tag: v1.4.0
`

// deployFixture swaps every factory variable for fakes and restores them
// on cleanup. The returned project dir has a tenant config plus source
// directories for the backend and two functions.
type deployFixture struct {
	provider *deploytest.FakeProvider
	registry *deploytest.FakeRegistry
	builder  *deploytest.FakeBuilder
	site     *deploytest.FakeSite
	assets   *deploytest.FakeAssets
	cdn      *deploytest.FakeCDN

	projectDir  string
	wizardRuns  int
	fillSecrets func(*config.Config)
}

func newDeployFixture(t *testing.T) *deployFixture {
	t.Helper()

	f := &deployFixture{
		provider: &deploytest.FakeProvider{
			OutputValues: map[string]string{
				"load_balancer_dns":   "acme-lb.eu-central-1.elb.amazonaws.com",
				"cdn_domain":          "d1234.cloudfront.net",
				"cdn_distribution_id": "E2EXAMPLE",
			},
		},
		registry:   deploytest.NewFakeRegistry(),
		site:       &deploytest.FakeSite{Dist: "/tmp/dist"},
		assets:     &deploytest.FakeAssets{Stats: deploy.SyncStats{Uploaded: 4}},
		cdn:        &deploytest.FakeCDN{},
		projectDir: t.TempDir(),
	}
	f.builder = &deploytest.FakeBuilder{Registry: f.registry}

	require.NoError(t, os.WriteFile(filepath.Join(f.projectDir, tenantConfigFile), []byte(tenantYAML), 0600))
	for _, sub := range []string{"backend", "functions/auth", "functions/billing", "frontend"} {
		require.NoError(t, os.MkdirAll(filepath.Join(f.projectDir, sub), 0750))
	}
	for _, repo := range []string{
		"acme/backend", "acme/auth", "acme/billing", "acme/exports",
		"acme/notifications", "acme/scheduler", "acme/webhooks",
	} {
		f.registry.Repos[repo] = true
	}

	origProvider := newProvider
	origRegistry := newRegistry
	origBuilder := newImageBuilder
	origSite := newSiteBuilder
	origAssets := newAssetStore
	origCDN := newCDN
	origAcquire := acquireCredentials
	origVerify := verifyIdentity
	origCheck := checkTools
	origTTY := isInteractive
	origWizard := completeWizard
	t.Cleanup(func() {
		newProvider = origProvider
		newRegistry = origRegistry
		newImageBuilder = origBuilder
		newSiteBuilder = origSite
		newAssetStore = origAssets
		newCDN = origCDN
		acquireCredentials = origAcquire
		verifyIdentity = origVerify
		checkTools = origCheck
		isInteractive = origTTY
		completeWizard = origWizard
	})

	newProvider = func(string) deploy.Provider { return f.provider }
	newRegistry = func(aws.Config) deploy.Registry { return f.registry }
	newImageBuilder = func() deploy.ImageBuilder { return f.builder }
	newSiteBuilder = func() deploy.SiteBuilder { return f.site }
	newAssetStore = func(aws.Config) deploy.AssetStore { return f.assets }
	newCDN = func(aws.Config) deploy.CDN { return f.cdn }
	acquireCredentials = func(context.Context, *config.Config) (*credentials.Context, error) {
		return &credentials.Context{}, nil
	}
	verifyIdentity = func(context.Context, aws.Config, string) (string, error) {
		return "123456789012", nil
	}
	checkTools = func([]preflight.Tool) error { return nil }
	isInteractive = func() bool { return false }
	completeWizard = func(_ context.Context, cfg *config.Config) error {
		f.wizardRuns++
		if f.fillSecrets != nil {
			f.fillSecrets(cfg)
		}
		return nil
	}

	return f
}

func (f *deployFixture) options() DeployOptions {
	return DeployOptions{ProjectDir: f.projectDir}
}

func TestDeploy_FullPipeline(t *testing.T) {
	f := newDeployFixture(t)

	err := Deploy(context.Background(), f.options())
	require.NoError(t, err)

	// Workspace isolation per tenant slug.
	assert.Equal(t, 1, f.provider.InitCalls)
	assert.Equal(t, []string{"acme"}, f.provider.Workspaces)

	// Variable set materialized next to the infrastructure definitions.
	varFile := filepath.Join(f.projectDir, "terraform", "tenants", "acme.tfvars")
	content, err := os.ReadFile(varFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `tenant_slug = "acme"`)
	info, err := os.Stat(varFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Targeted registry apply first, then the full convergence apply.
	require.Len(t, f.provider.Applies, 2)
	assert.Equal(t, []string{"aws_ecr_repository.units"}, f.provider.Applies[0].Targets)
	assert.Empty(t, f.provider.Applies[1].Targets)
	assert.Equal(t, varFile, f.provider.Applies[0].VarFile)

	// Backend and the two present functions pushed and verified.
	assert.Len(t, f.builder.Pushes, 3)
	assert.Contains(t, f.builder.Pushes[0].Remote,
		"123456789012.dkr.ecr.eu-central-1.amazonaws.com/acme/backend:v1.4.0")

	// Frontend built for the tenant environment and synced.
	require.Len(t, f.site.Builds, 1)
	assert.Equal(t, "prod", f.site.Builds[0].Mode)
	require.Len(t, f.assets.Syncs, 1)
	assert.Equal(t, "acme-public", f.assets.Syncs[0].Bucket)
	assert.Equal(t, []string{"E2EXAMPLE"}, f.cdn.Invalidated)
}

func TestDeploy_PublishVerificationFailureStopsPipeline(t *testing.T) {
	f := newDeployFixture(t)
	f.builder.DropPushes = true

	err := Deploy(context.Background(), f.options())

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindPublishVerification))
	// Only the targeted registry apply ran; convergence never started.
	assert.Len(t, f.provider.Applies, 1)
	assert.Empty(t, f.assets.Syncs)
}

func TestDeploy_IdentityFailureStopsBeforeAnyMutation(t *testing.T) {
	f := newDeployFixture(t)
	verifyIdentity = func(context.Context, aws.Config, string) (string, error) {
		return "", fault.New(fault.KindCredential, "verify identity", "InvalidClientTokenId: token invalid")
	}

	err := Deploy(context.Background(), f.options())

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindCredential))
	assert.Zero(t, f.provider.InitCalls)
	assert.Empty(t, f.builder.Pushes)
}

func TestDeploy_CredentialEnvironmentRestored(t *testing.T) {
	f := newDeployFixture(t)
	t.Setenv("AWS_PROFILE", "previous-profile")
	t.Setenv("AWS_REGION", "us-west-2")

	// Real acquire, so the managed environment is actually mutated.
	acquireCredentials = credentials.Acquire
	verifyIdentity = func(context.Context, aws.Config, string) (string, error) {
		return "", fault.New(fault.KindCredential, "verify identity", "ExpiredToken")
	}

	err := Deploy(context.Background(), f.options())

	require.Error(t, err)
	assert.Equal(t, "previous-profile", os.Getenv("AWS_PROFILE"))
	assert.Equal(t, "us-west-2", os.Getenv("AWS_REGION"))
}

func TestDeploy_NonInteractiveMissingConfigFails(t *testing.T) {
	f := newDeployFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.projectDir, tenantConfigFile)))

	err := Deploy(context.Background(), f.options())

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindConfig))
	assert.Zero(t, f.provider.InitCalls)
}

// hybridTenantYAML leaves every secret-bearing field blank; the wizard
// must solicit them before anything is materialized.
const hybridTenantYAML = `tenant_name: Acme Corp
slug: acme
environment: prod
region: eu-central-1
credential_mode: profile
profile: acme-prod
public_bucket: acme-public
private_bucket: acme-private
db_username: acme
backend_image_tag: v1.4.0
function_image_tag: v1.4.0
`

func TestDeploy_HybridConfigSolicitsBlankSecrets(t *testing.T) {
	f := newDeployFixture(t)
	configPath := filepath.Join(f.projectDir, tenantConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte(hybridTenantYAML), 0600))

	isInteractive = func() bool { return true }
	f.fillSecrets = func(cfg *config.Config) {
		cfg.DBPassword = "wizard-db-pass"
		cfg.AppSecret = "wizard-app-secret"
		cfg.JWTSecret = "wizard-jwt-secret"
	}

	err := Deploy(context.Background(), f.options())

	require.NoError(t, err)
	assert.Equal(t, 1, f.wizardRuns)

	// The solicited secrets reach the materialized variable set.
	content, err := os.ReadFile(filepath.Join(f.projectDir, "terraform", "tenants", "acme.tfvars"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `db_password = "wizard-db-pass"`)
	assert.Contains(t, string(content), `app_secret = "wizard-app-secret"`)
	assert.Contains(t, string(content), `jwt_secret = "wizard-jwt-secret"`)
	assert.NotContains(t, string(content), `db_password = ""`)
}

func TestDeploy_BlankSecretsWithoutTerminalFail(t *testing.T) {
	f := newDeployFixture(t)
	configPath := filepath.Join(f.projectDir, tenantConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte(hybridTenantYAML), 0600))

	err := Deploy(context.Background(), f.options())

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindConfig))
	assert.Zero(t, f.wizardRuns)
	assert.Zero(t, f.provider.InitCalls)
	assert.NoFileExists(t, filepath.Join(f.projectDir, "terraform", "tenants", "acme.tfvars"))
}

func TestDeploy_CompleteConfigSkipsWizard(t *testing.T) {
	f := newDeployFixture(t)
	isInteractive = func() bool { return true }

	err := Deploy(context.Background(), f.options())

	require.NoError(t, err)
	assert.Zero(t, f.wizardRuns)
}

func TestDeploy_ConfigFileStatFailureSurfaces(t *testing.T) {
	f := newDeployFixture(t)
	// A regular file in the project-dir position makes the config stat
	// fail with an error that is not "does not exist".
	notADir := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0600))

	err := Deploy(context.Background(), DeployOptions{ProjectDir: notADir})

	require.Error(t, err)
	assert.Contains(t, err.Error(), tenantConfigFile)
	assert.Zero(t, f.provider.InitCalls)
}

func TestDeploy_TenantFlagOverridesConfig(t *testing.T) {
	f := newDeployFixture(t)
	for _, repo := range []string{
		"globex-inc/backend", "globex-inc/auth", "globex-inc/billing", "globex-inc/exports",
		"globex-inc/notifications", "globex-inc/scheduler", "globex-inc/webhooks",
	} {
		f.registry.Repos[repo] = true
	}

	opts := f.options()
	opts.Tenant = "Globex Inc"
	err := Deploy(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, []string{"globex-inc"}, f.provider.Workspaces)
}

func TestDeploy_ExistingVarsFileSkipsMaterialization(t *testing.T) {
	f := newDeployFixture(t)
	varFile := filepath.Join(t.TempDir(), "acme.tfvars")
	require.NoError(t, os.WriteFile(varFile, []byte(`tenant_slug = "acme"`+"\n"), 0600))

	opts := f.options()
	opts.VarsFile = varFile
	err := Deploy(context.Background(), opts)

	require.NoError(t, err)
	require.NotEmpty(t, f.provider.Applies)
	assert.Equal(t, varFile, f.provider.Applies[0].VarFile)
	assert.NoFileExists(t, filepath.Join(f.projectDir, "terraform", "tenants", "acme.tfvars"))
}
