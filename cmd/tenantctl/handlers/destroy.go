package handlers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/tenantctl/tenantctl/internal/config"
	"github.com/tenantctl/tenantctl/internal/deploy"
	"github.com/tenantctl/tenantctl/internal/deploy/teardown"
	"github.com/tenantctl/tenantctl/internal/fault"
	"github.com/tenantctl/tenantctl/internal/preflight"
	"github.com/tenantctl/tenantctl/internal/ui"
	"github.com/tenantctl/tenantctl/internal/varset"
)

// DestroyOptions carries the destroy command's flag values.
type DestroyOptions struct {
	Tenant       string
	Force        bool
	TerraformDir string
}

// destroyer matches teardown.Controller for test injection.
type destroyer interface {
	Destroy(ctx context.Context, slug string) error
}

// Factory function variables for destroy - can be replaced in tests.
var (
	newTeardownController = func(provider deploy.Provider, observer deploy.Observer, varDir string) destroyer {
		return teardown.NewController(provider, observer, varDir)
	}

	// confirmInput is where the confirmation answer is read from.
	confirmInput io.Reader = os.Stdin
)

// Destroy handles the destroy command.
//
// It normalizes the tenant slug, prints the teardown warning, requires the
// exact answer "yes" unless forced, and delegates to the teardown
// controller. A declined confirmation is a clean abort, not a failure.
func Destroy(ctx context.Context, opts DestroyOptions) error {
	if opts.Tenant == "" {
		return fault.MissingField("tenant")
	}
	slug := config.NormalizeSlug(opts.Tenant)

	if err := checkTools(preflight.DestroyTools()); err != nil {
		return fault.Wrap(fault.KindConfig, "check tools", err)
	}

	varDir := varsDir(opts.TerraformDir)
	degraded := !varset.Exists(varDir, slug)

	fmt.Print(ui.DestroyWarning(slug, degraded, isInteractive()))

	if !opts.Force {
		if err := confirmDestroy(slug); err != nil {
			if fault.Is(err, fault.KindConfirmationAborted) {
				log.Printf("Destroy of tenant %s aborted", slug)
				return nil
			}
			return err
		}
	}

	controller := newTeardownController(newProvider(opts.TerraformDir), deploy.NewConsoleObserver(), varDir)
	if err := controller.Destroy(ctx, slug); err != nil {
		return err
	}

	log.Printf("Tenant %s destroyed", slug)
	return nil
}

// confirmDestroy requires the exact answer "yes". Anything else, including
// EOF, aborts.
func confirmDestroy(slug string) error {
	fmt.Printf("Type %q to destroy tenant %q: ", "yes", slug)

	answer, err := bufio.NewReader(confirmInput).ReadString('\n')
	if err != nil && answer == "" {
		return fault.New(fault.KindConfirmationAborted, "confirm destroy", "no confirmation received")
	}
	if strings.TrimSpace(answer) != "yes" {
		return fault.New(fault.KindConfirmationAborted, "confirm destroy", "answer was not %q", "yes")
	}
	return nil
}
