// Package handlers implements the business logic behind the CLI commands.
//
// Handlers are framework-agnostic: commands parse flags and delegate here.
// External collaborators are constructed through package-level factory
// function variables so tests can substitute fakes.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/config/wizard"
	"github.com/tenantctl/tenantctl/internal/credentials"
	"github.com/tenantctl/tenantctl/internal/deploy"
	"github.com/tenantctl/tenantctl/internal/deploy/assets"
	"github.com/tenantctl/tenantctl/internal/deploy/infra"
	"github.com/tenantctl/tenantctl/internal/deploy/publish"
	"github.com/tenantctl/tenantctl/internal/deploy/registry"
	"github.com/tenantctl/tenantctl/internal/fault"
	"github.com/tenantctl/tenantctl/internal/platform/cdn"
	"github.com/tenantctl/tenantctl/internal/platform/docker"
	"github.com/tenantctl/tenantctl/internal/platform/ecr"
	"github.com/tenantctl/tenantctl/internal/platform/s3sync"
	"github.com/tenantctl/tenantctl/internal/platform/site"
	"github.com/tenantctl/tenantctl/internal/platform/terraform"
	"github.com/tenantctl/tenantctl/internal/preflight"
	"github.com/tenantctl/tenantctl/internal/ui"
	"github.com/tenantctl/tenantctl/internal/varset"
)

// tenantConfigFile is the tenant configuration auto-detected in the
// project directory.
const tenantConfigFile = "tenantctl.yaml"

// DeployOptions carries the deploy command's flag values.
type DeployOptions struct {
	Tenant            string
	CredentialProfile string
	VarsFile          string
	ProjectDir        string
	TerraformDir      string
}

// Factory function variables - can be replaced in tests.
var (
	newProvider = func(dir string) deploy.Provider {
		return terraform.NewRunner(dir)
	}
	newRegistry = func(cfg aws.Config) deploy.Registry {
		return ecr.NewClient(cfg)
	}
	newImageBuilder = func() deploy.ImageBuilder {
		return docker.NewBuilder()
	}
	newSiteBuilder = func() deploy.SiteBuilder {
		return site.NewBuilder()
	}
	newAssetStore = func(cfg aws.Config) deploy.AssetStore {
		return s3sync.NewStore(cfg)
	}
	newCDN = func(cfg aws.Config) deploy.CDN {
		return cdn.NewClient(cfg)
	}

	acquireCredentials = credentials.Acquire
	verifyIdentity     = preflight.Verify
	completeWizard     = wizard.Complete
	writeVarSet        = varset.Write
	runPhases          = deploy.RunPhases

	checkTools = func(tools []preflight.Tool) error {
		return preflight.CheckTools(tools).Error()
	}
	isInteractive = ui.IsInteractive
)

// Deploy handles the deploy command.
//
// It resolves the tenant configuration, verifies tools and credentials,
// materializes the variable set, and drives the phase pipeline.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := resolveConfig(ctx, opts)
	if err != nil {
		return err
	}

	if err := checkTools(preflight.DeployTools()); err != nil {
		return fault.Wrap(fault.KindConfig, "check tools", err)
	}

	creds, err := acquireCredentials(ctx, cfg)
	if err != nil {
		return err
	}
	defer creds.Release()

	accountID, err := verifyIdentity(ctx, creds.AWS(), cfg.Region)
	if err != nil {
		return err
	}
	log.Printf("Deploying tenant %s to account %s (%s)", cfg.Slug, accountID, cfg.Region)

	terraformDir := opts.TerraformDir
	if terraformDir == "" {
		terraformDir = filepath.Join(opts.ProjectDir, "terraform")
	}

	varFile := opts.VarsFile
	if varFile == "" {
		varFile, err = writeVarSet(cfg, varsDir(terraformDir))
		if err != nil {
			return err
		}
	}

	provider := newProvider(terraformDir)
	if err := provider.Init(ctx); err != nil {
		return fmt.Errorf("provider init failed: %w", err)
	}
	if err := provider.SelectWorkspace(ctx, cfg.Slug); err != nil {
		return fmt.Errorf("workspace selection failed: %w", err)
	}

	dctx := deploy.NewContext(ctx, cfg)
	dctx.Provider = provider
	dctx.Registry = newRegistry(creds.AWS())
	dctx.Builder = newImageBuilder()
	dctx.Site = newSiteBuilder()
	dctx.Assets = newAssetStore(creds.AWS())
	dctx.CDN = newCDN(creds.AWS())
	dctx.VarFile = varFile
	dctx.ProjectDir = opts.ProjectDir
	dctx.State.AccountID = accountID
	dctx.RegistryHost = ecr.RegistryHost(accountID, cfg.Region)

	phases := []deploy.Phase{
		registry.NewPhase(),
		publish.NewPhase(),
		infra.NewPhase(),
		assets.NewPhase(),
	}
	if err := runPhases(dctx, phases); err != nil {
		return err
	}

	fmt.Print(ui.DeploySummary(cfg, dctx.State, isInteractive()))
	return nil
}

// resolveConfig merges the config file, flag overrides, and (on a
// terminal) wizard input, then validates. Secret fields left blank in the
// file are solicited through the wizard's masked inputs; non-interactive
// runs with missing fields fail instead of prompting.
func resolveConfig(ctx context.Context, opts DeployOptions) (*config.Config, error) {
	cfg := &config.Config{}

	path := filepath.Join(opts.ProjectDir, tenantConfigFile)
	if _, err := os.Stat(path); err == nil {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to inspect config file %s: %w", path, err)
	}

	if opts.Tenant != "" {
		cfg.TenantName = opts.Tenant
		// Re-derive the slug from the override.
		cfg.Slug = ""
	}
	if opts.CredentialProfile != "" {
		cfg.Profile = opts.CredentialProfile
		cfg.CredentialMode = config.CredentialModeProfile
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil || missingSecrets(cfg) {
		if !isInteractive() {
			if err != nil {
				return nil, err
			}
			return nil, fault.New(fault.KindConfig, "resolve configuration",
				"secret fields are blank in %s and no terminal is attached to prompt for them", tenantConfigFile)
		}
		if err := completeWizard(ctx, cfg); err != nil {
			return nil, err
		}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// missingSecrets reports whether a secret the variable set carries is
// still blank. Blank secrets pass Validate, but persisting them would
// converge the tenant's database with empty credentials, so they trigger
// masked prompting instead.
func missingSecrets(cfg *config.Config) bool {
	return cfg.DBPassword == "" || cfg.AppSecret == "" || cfg.JWTSecret == ""
}

// varsDir is where per-tenant variable sets live, next to the
// infrastructure definitions.
func varsDir(terraformDir string) string {
	return filepath.Join(terraformDir, "tenants")
}
