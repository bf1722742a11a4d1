// Package main is the entry point for the tenantctl CLI.
//
// tenantctl deploys and tears down one isolated AWS application stack per
// tenant. A deploy resolves the tenant configuration, verifies the
// credentials, materializes the provider variable set, and drives the
// phased pipeline: registry bootstrap, build and publish, infrastructure
// convergence, asset publish.
//
// For detailed usage information, run:
//
//	tenantctl --help
package main

import (
	"fmt"
	"os"

	"github.com/tenantctl/tenantctl/cmd/tenantctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
