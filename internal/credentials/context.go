// Package credentials owns the run's ambient cloud identity.
//
// External tools invoked as subprocesses (terraform, docker) read their
// credentials from the process environment, so the environment is the one
// mutable resource shared with the outside world. A [Context] acquires it
// exclusively at run start, records whatever was set before, and restores
// it in Release, which callers defer so the restore runs on every exit
// path. No secret from one run leaks into a subsequent unrelated process.
package credentials

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/tenantctl/tenantctl/internal/config"
)

// managedVars are the environment variables a Context takes ownership of
// for the duration of a run.
var managedVars = []string{
	"AWS_REGION",
	"AWS_PROFILE",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_SESSION_TOKEN",
}

// Context is the acquired credential environment for one run.
type Context struct {
	awsCfg   aws.Config
	saved    map[string]*string
	released bool
}

// Acquire sets the credential environment for the tenant's credential mode
// and builds the matching in-process AWS configuration. The caller must
// defer Release on the returned Context.
func Acquire(ctx context.Context, cfg *config.Config) (*Context, error) {
	c := &Context{saved: make(map[string]*string, len(managedVars))}
	for _, key := range managedVars {
		if v, ok := os.LookupEnv(key); ok {
			prev := v
			c.saved[key] = &prev
		} else {
			c.saved[key] = nil
		}
		os.Unsetenv(key)
	}

	os.Setenv("AWS_REGION", cfg.Region)

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	switch cfg.CredentialMode {
	case config.CredentialModeKeys:
		os.Setenv("AWS_ACCESS_KEY_ID", cfg.AccessKeyID)
		os.Setenv("AWS_SECRET_ACCESS_KEY", cfg.SecretAccessKey)
		if cfg.SessionToken != "" {
			os.Setenv("AWS_SESSION_TOKEN", cfg.SessionToken)
		}
		opts = append(opts, awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	case config.CredentialModeProfile:
		if cfg.Profile != "" {
			os.Setenv("AWS_PROFILE", cfg.Profile)
			opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
		}
	default:
		c.Release()
		return nil, fmt.Errorf("unsupported credential mode %q", cfg.CredentialMode)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	c.awsCfg = awsCfg

	return c, nil
}

// AWS returns the in-process AWS configuration for this run's identity.
func (c *Context) AWS() aws.Config {
	return c.awsCfg
}

// Release restores the pre-run credential environment. Safe to call more
// than once; only the first call restores.
func (c *Context) Release() {
	if c == nil || c.released {
		return
	}
	c.released = true

	for _, key := range managedVars {
		prev, ok := c.saved[key]
		if !ok || prev == nil {
			os.Unsetenv(key)
			continue
		}
		os.Setenv(key, *prev)
	}
}
