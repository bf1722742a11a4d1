package commands

import (
	"github.com/spf13/cobra"

	"github.com/tenantctl/tenantctl/cmd/tenantctl/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command tears down every resource of one tenant: the
// database, the backend service, the serverless functions, the buckets,
// and the CDN distribution. It requires explicit confirmation unless
// --force is given.
func Destroy() *cobra.Command {
	var opts handlers.DestroyOptions

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a tenant's application stack and all associated resources",
		Long: `Destroy removes every AWS resource belonging to one tenant.

This deletes the tenant's network, database, backend service, serverless
functions, object storage, and CDN distribution. The tenant's persisted
variable set drives the teardown so exactly the deployed resources are
removed; when the variable set is missing, slug-scoped defaults are used
and a warning is printed.

Example:
  tenantctl destroy --tenant acme

WARNING: This operation is irreversible. All tenant data will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "Tenant name or slug (required)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Skip the confirmation prompt")
	cmd.Flags().StringVar(&opts.TerraformDir, "terraform-dir", "terraform", "Infrastructure definition directory")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
