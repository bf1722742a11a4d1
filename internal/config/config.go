package config

import (
	"github.com/tenantctl/tenantctl/internal/fault"
)

// Credential modes accepted in tenant configuration.
const (
	// CredentialModeProfile uses a named profile from the shared AWS config.
	CredentialModeProfile = "profile"
	// CredentialModeKeys uses static access keys supplied in the config.
	CredentialModeKeys = "keys"
)

// Config holds the full resolved configuration for one tenant.
//
// Slug is immutable once resources exist under it: changing it produces a
// disjoint tenant, never a rename.
type Config struct {
	// TenantName is the human-supplied name; Slug is derived from it.
	TenantName string `yaml:"tenant_name"`
	Slug       string `yaml:"slug"`

	Environment string `yaml:"environment"`
	Region      string `yaml:"region"`

	// Credential selection: "profile" or "keys".
	CredentialMode  string `yaml:"credential_mode"`
	Profile         string `yaml:"profile,omitempty"`
	AccessKeyID     string `yaml:"access_key_id,omitempty"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty"`
	SessionToken    string `yaml:"session_token,omitempty"`

	// Storage
	PublicBucket  string `yaml:"public_bucket"`
	PrivateBucket string `yaml:"private_bucket"`

	// Database
	DBUsername      string `yaml:"db_username"`
	DBPassword      string `yaml:"db_password,omitempty"`
	DBName          string `yaml:"db_name,omitempty"`
	DBEngineVersion string `yaml:"db_engine_version,omitempty"`

	// Application secrets
	AppSecret string `yaml:"app_secret,omitempty"`
	JWTSecret string `yaml:"jwt_secret,omitempty"`

	// Image tags
	BackendImageTag  string `yaml:"backend_image_tag"`
	FunctionImageTag string `yaml:"function_image_tag"`
	// FunctionImageTags overrides the global function tag per function name.
	FunctionImageTags map[string]string `yaml:"function_image_tags,omitempty"`

	// Optional custom domain
	Domain         string `yaml:"domain,omitempty"`
	CertificateARN string `yaml:"certificate_arn,omitempty"`

	// Optional third-party integration
	ThirdPartyAPIKey string `yaml:"third_party_api_key,omitempty"`
}

// ApplyDefaults fills optional fields with their fixed defaults and derives
// the slug from the tenant name when it was not set explicitly.
func (c *Config) ApplyDefaults() {
	if c.Slug == "" {
		c.Slug = NormalizeSlug(c.TenantName)
	} else {
		c.Slug = NormalizeSlug(c.Slug)
	}
	if c.TenantName == "" {
		c.TenantName = c.Slug
	}
	if c.CredentialMode == "" {
		if c.AccessKeyID != "" {
			c.CredentialMode = CredentialModeKeys
		} else {
			c.CredentialMode = CredentialModeProfile
		}
	}
	if c.DBName == "" {
		c.DBName = DefaultDBName
	}
	if c.DBEngineVersion == "" {
		c.DBEngineVersion = DefaultDBEngineVersion
	}
	if c.FunctionImageTags == nil {
		c.FunctionImageTags = make(map[string]string)
	}
}

// Validate checks the required fields. It returns the first missing field as
// a config fault so the run fails before any external call.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"slug", c.Slug},
		{"environment", c.Environment},
		{"region", c.Region},
		{"public_bucket", c.PublicBucket},
		{"private_bucket", c.PrivateBucket},
		{"db_username", c.DBUsername},
		{"backend_image_tag", c.BackendImageTag},
		{"function_image_tag", c.FunctionImageTag},
	}
	for _, f := range required {
		if f.value == "" {
			return fault.MissingField(f.name)
		}
	}

	if c.CredentialMode != CredentialModeProfile && c.CredentialMode != CredentialModeKeys {
		return fault.New(fault.KindConfig, "validate configuration",
			"credential_mode must be %q or %q, got %q", CredentialModeProfile, CredentialModeKeys, c.CredentialMode)
	}
	if c.CredentialMode == CredentialModeKeys && (c.AccessKeyID == "" || c.SecretAccessKey == "") {
		return fault.New(fault.KindConfig, "validate configuration",
			"credential_mode %q requires access_key_id and secret_access_key", CredentialModeKeys)
	}
	for name := range c.FunctionImageTags {
		if !IsFunctionName(name) {
			return fault.New(fault.KindConfig, "validate configuration",
				"function_image_tags contains unknown function %q", name)
		}
	}
	return nil
}

// FunctionTag returns the image tag for a function, falling back to the
// global function tag when no override is set.
func (c *Config) FunctionTag(name string) string {
	if tag, ok := c.FunctionImageTags[name]; ok && tag != "" {
		return tag
	}
	return c.FunctionImageTag
}
