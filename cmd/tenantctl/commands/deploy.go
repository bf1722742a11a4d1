package commands

import (
	"github.com/spf13/cobra"

	"github.com/tenantctl/tenantctl/cmd/tenantctl/handlers"
)

// Deploy returns the deploy command.
//
// The deploy command drives the full phased pipeline for one tenant:
// registry bootstrap, build and publish, infrastructure convergence, and
// asset publish. Configuration comes from tenantctl.yaml in the project
// directory, flag overrides, and (on a terminal) an interactive wizard for
// anything still missing.
func Deploy() *cobra.Command {
	var opts handlers.DeployOptions

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a tenant's full application stack",
		Long: `Deploy provisions one tenant's complete application stack on AWS.

The run proceeds in ordered phases:
  1. Registry bootstrap    - container repositories, one per deployable unit
  2. Build & publish       - build, push, and verify every unit image
  3. Infrastructure        - converge the full resource graph (VPC, database,
                             backend service, functions, CDN)
  4. Asset publish         - build the frontend, sync it to the public
                             bucket, invalidate the CDN cache

A failing phase aborts the run; completed phases are left in place and a
rerun continues idempotently.

Examples:
  # Deploy using tenantctl.yaml in the current directory
  tenantctl deploy

  # Deploy a named tenant with a specific credential profile
  tenantctl deploy --tenant "Acme Corp" --credential-profile acme-prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "Tenant name (overrides the config file)")
	cmd.Flags().StringVar(&opts.CredentialProfile, "credential-profile", "", "Shared AWS config profile to deploy with")
	cmd.Flags().StringVar(&opts.VarsFile, "vars-file", "", "Use an existing variable set instead of materializing one")
	cmd.Flags().StringVar(&opts.ProjectDir, "project-dir", ".", "Project root holding backend/, functions/, frontend/")
	cmd.Flags().StringVar(&opts.TerraformDir, "terraform-dir", "", "Infrastructure definition directory (default <project-dir>/terraform)")

	return cmd
}
