package wizard

import (
	"context"
	"fmt"

	"github.com/tenantctl/tenantctl/internal/config"
)

// Complete fills every missing field of cfg by prompting interactively.
// Fields already present (from a vars file or flags) are not asked again, so
// the same flow serves both full-interactive and hybrid resolution. The
// context is used for cancellation (Ctrl+C).
func Complete(ctx context.Context, cfg *config.Config) error {
	groups := []struct {
		name string
		run  func(context.Context, *config.Config) error
	}{
		{"tenant identity", runIdentityGroup},
		{"credentials", runCredentialsGroup},
		{"storage", runStorageGroup},
		{"database", runDatabaseGroup},
		{"application secrets", runSecretsGroup},
		{"artifacts", runImagesGroup},
		{"domain", runDomainGroup},
	}

	for _, g := range groups {
		if err := g.run(ctx, cfg); err != nil {
			return fmt.Errorf("%s: %w", g.name, err)
		}
	}

	cfg.ApplyDefaults()
	return nil
}
