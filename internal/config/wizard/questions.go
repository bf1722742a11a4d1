package wizard

import (
	"context"
	"regexp"

	"github.com/charmbracelet/huh"

	"github.com/tenantctl/tenantctl/internal/config"
)

// bucketNameRegex validates S3 bucket names: 3-63 lowercase alphanumeric
// characters, dots or hyphens, starting and ending alphanumeric.
var bucketNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func validateTenantName(s string) error {
	if config.NormalizeSlug(s) == "" {
		return errTenantNameRequired
	}
	return nil
}

func validateBucket(s string) error {
	if !bucketNameRegex.MatchString(s) {
		return errBucketInvalid
	}
	return nil
}

func validateNonEmpty(err error) func(string) error {
	return func(s string) error {
		if s == "" {
			return err
		}
		return nil
	}
}

// runIdentityGroup prompts for tenant name, environment and region.
func runIdentityGroup(ctx context.Context, cfg *config.Config) error {
	var fields []huh.Field

	if cfg.TenantName == "" && cfg.Slug == "" {
		fields = append(fields, huh.NewInput().
			Title("Tenant Name").
			Description("Human-readable name; the tenant slug is derived from it").
			Placeholder("Acme Corp").
			Value(&cfg.TenantName).
			Validate(validateTenantName))
	}
	if cfg.Environment == "" {
		fields = append(fields, huh.NewSelect[string]().
			Title("Environment").
			Options(EnvironmentsToOptions()...).
			Value(&cfg.Environment))
	}
	if cfg.Region == "" {
		fields = append(fields, huh.NewSelect[string]().
			Title("Region").
			Description("AWS region the tenant stack is created in").
			Options(RegionsToOptions()...).
			Value(&cfg.Region))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("Tenant Identity")).RunWithContext(ctx)
}

// runCredentialsGroup prompts for credential mode and the matching inputs.
// Static keys are collected masked.
func runCredentialsGroup(ctx context.Context, cfg *config.Config) error {
	if cfg.Profile != "" || cfg.AccessKeyID != "" {
		return nil
	}

	cfg.CredentialMode = config.CredentialModeProfile
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Credential Mode").
				Description("How the deployment authenticates against AWS").
				Options(
					huh.NewOption("named profile", config.CredentialModeProfile),
					huh.NewOption("static access keys", config.CredentialModeKeys),
				).
				Value(&cfg.CredentialMode),
		).Title("Credentials"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	if cfg.CredentialMode == config.CredentialModeProfile {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Profile Name").
					Description("Profile from your shared AWS config; empty uses the default chain").
					Placeholder("default").
					Value(&cfg.Profile),
			).Title("Credentials"),
		).RunWithContext(ctx)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access Key ID").
				Value(&cfg.AccessKeyID).
				Validate(validateNonEmpty(errSecretRequired)),
			huh.NewInput().
				Title("Secret Access Key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.SecretAccessKey).
				Validate(validateNonEmpty(errSecretRequired)),
			huh.NewInput().
				Title("Session Token (optional)").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.SessionToken),
		).Title("Credentials"),
	).RunWithContext(ctx)
}

// runStorageGroup prompts for the two tenant bucket names.
func runStorageGroup(ctx context.Context, cfg *config.Config) error {
	var fields []huh.Field
	slug := cfg.Slug
	if slug == "" {
		slug = config.NormalizeSlug(cfg.TenantName)
	}

	if cfg.PublicBucket == "" {
		cfg.PublicBucket = slug + "-public"
		fields = append(fields, huh.NewInput().
			Title("Public Bucket").
			Description("Bucket serving the tenant's static assets").
			Value(&cfg.PublicBucket).
			Validate(validateBucket))
	}
	if cfg.PrivateBucket == "" {
		cfg.PrivateBucket = slug + "-private"
		fields = append(fields, huh.NewInput().
			Title("Private Bucket").
			Description("Bucket for application data and uploads").
			Value(&cfg.PrivateBucket).
			Validate(validateBucket))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("Storage")).RunWithContext(ctx)
}

// runDatabaseGroup prompts for database credentials. The password is masked.
func runDatabaseGroup(ctx context.Context, cfg *config.Config) error {
	var fields []huh.Field

	if cfg.DBUsername == "" {
		fields = append(fields, huh.NewInput().
			Title("Database Username").
			Placeholder("app").
			Value(&cfg.DBUsername).
			Validate(validateNonEmpty(errUsernameRequired)))
	}
	if cfg.DBPassword == "" {
		fields = append(fields, huh.NewInput().
			Title("Database Password").
			EchoMode(huh.EchoModePassword).
			Value(&cfg.DBPassword).
			Validate(validateNonEmpty(errSecretRequired)))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("Database")).RunWithContext(ctx)
}

// runSecretsGroup prompts for the two application secrets, masked.
func runSecretsGroup(ctx context.Context, cfg *config.Config) error {
	var fields []huh.Field

	if cfg.AppSecret == "" {
		fields = append(fields, huh.NewInput().
			Title("Application Secret").
			EchoMode(huh.EchoModePassword).
			Value(&cfg.AppSecret).
			Validate(validateNonEmpty(errSecretRequired)))
	}
	if cfg.JWTSecret == "" {
		fields = append(fields, huh.NewInput().
			Title("JWT Signing Secret").
			EchoMode(huh.EchoModePassword).
			Value(&cfg.JWTSecret).
			Validate(validateNonEmpty(errSecretRequired)))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("Application Secrets")).RunWithContext(ctx)
}

// runImagesGroup prompts for the backend and function image tags.
func runImagesGroup(ctx context.Context, cfg *config.Config) error {
	var fields []huh.Field

	if cfg.BackendImageTag == "" {
		fields = append(fields, huh.NewInput().
			Title("Backend Image Tag").
			Placeholder("v1.0.0").
			Value(&cfg.BackendImageTag).
			Validate(validateNonEmpty(errTagRequired)))
	}
	if cfg.FunctionImageTag == "" {
		fields = append(fields, huh.NewInput().
			Title("Function Image Tag").
			Description("Applied to every function without a per-function override").
			Placeholder("v1.0.0").
			Value(&cfg.FunctionImageTag).
			Validate(validateNonEmpty(errTagRequired)))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...).Title("Artifacts")).RunWithContext(ctx)
}

// runDomainGroup optionally prompts for a custom domain, certificate and
// third-party API key.
func runDomainGroup(ctx context.Context, cfg *config.Config) error {
	if cfg.Domain != "" || cfg.CertificateARN != "" {
		return nil
	}

	var configure bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Configure a custom domain?").
				Description("Skip to serve the tenant from the generated CDN domain").
				Value(&configure),
		).Title("Domain"),
	).RunWithContext(ctx)
	if err != nil || !configure {
		return err
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Domain").
				Placeholder("app.acme.example").
				Value(&cfg.Domain),
			huh.NewInput().
				Title("Certificate ARN").
				Description("ACM certificate covering the domain").
				Value(&cfg.CertificateARN),
			huh.NewInput().
				Title("Third-Party API Key (optional)").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.ThirdPartyAPIKey),
		).Title("Domain"),
	).RunWithContext(ctx)
}
