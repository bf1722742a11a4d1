// Package varset materializes a tenant configuration into the persisted
// variable set consumed by the infrastructure provider.
//
// Rendering is deterministic: fixed key order, fixed function-catalog
// order, fixed label order. Materializing the same configuration twice
// yields byte-identical output, which makes the configuration layer of a
// deployment idempotent. The file is built fully in memory and persisted
// in a single write, never partially.
package varset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tenantctl/tenantctl/internal/config"
)

// ManagedBy is the resource-label value marking resources owned by this
// tool.
const ManagedBy = "tenantctl"

// Path returns the variable set location for a tenant slug.
func Path(dir, slug string) string {
	return filepath.Join(dir, slug+".tfvars")
}

// Exists reports whether a tenant's variable set is already persisted.
func Exists(dir, slug string) bool {
	_, err := os.Stat(Path(dir, slug))
	return err == nil
}

// Render produces the variable set content for cfg. The output contains
// every secret-bearing field; it must only ever be written with owner-only
// permissions.
func Render(cfg *config.Config) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Variable set for tenant %q. Generated by %s; do not edit.\n\n", cfg.Slug, ManagedBy)

	scalars := []struct {
		key   string
		value string
	}{
		{"tenant_slug", cfg.Slug},
		{"environment", cfg.Environment},
		{"region", cfg.Region},
		{"public_bucket", cfg.PublicBucket},
		{"private_bucket", cfg.PrivateBucket},
		{"db_username", cfg.DBUsername},
		{"db_password", cfg.DBPassword},
		{"db_name", cfg.DBName},
		{"db_engine_version", cfg.DBEngineVersion},
		{"app_secret", cfg.AppSecret},
		{"jwt_secret", cfg.JWTSecret},
		{"backend_image_tag", cfg.BackendImageTag},
		{"domain", cfg.Domain},
		{"certificate_arn", cfg.CertificateARN},
		{"third_party_api_key", cfg.ThirdPartyAPIKey},
	}
	for _, s := range scalars {
		fmt.Fprintf(&b, "%s = %q\n", s.key, s.value)
	}

	b.WriteString("\nfunction_image_tags = {\n")
	for _, name := range config.FunctionNames {
		fmt.Fprintf(&b, "  %s = %q\n", name, cfg.FunctionTag(name))
	}
	b.WriteString("}\n")

	b.WriteString("\ntags = {\n")
	fmt.Fprintf(&b, "  Tenant      = %q\n", cfg.Slug)
	fmt.Fprintf(&b, "  Environment = %q\n", cfg.Environment)
	fmt.Fprintf(&b, "  ManagedBy   = %q\n", ManagedBy)
	b.WriteString("}\n")

	return []byte(b.String())
}

// Write materializes cfg into dir, creating the directory if absent and
// overwriting any existing variable set for the tenant. Returns the
// persisted path.
func Write(cfg *config.Config, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create variable set directory: %w", err)
	}

	path := Path(dir, cfg.Slug)
	// Whole buffer, one write. The file holds secrets: owner-only.
	if err := os.WriteFile(path, Render(cfg), 0600); err != nil {
		return "", fmt.Errorf("failed to write variable set: %w", err)
	}

	return path, nil
}
