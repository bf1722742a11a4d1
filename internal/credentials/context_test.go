package credentials

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenantctl/tenantctl/internal/config"
)

// Environment mutation: these tests must not run in parallel with each other.

func keysConfig() *config.Config {
	return &config.Config{
		Slug:            "acme",
		Region:          "eu-central-1",
		CredentialMode:  config.CredentialModeKeys,
		AccessKeyID:     "AKIAEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "token",
	}
}

func TestAcquire_KeysModeSetsEnvironment(t *testing.T) {
	t.Setenv("AWS_PROFILE", "previous-profile")
	t.Setenv("AWS_ACCESS_KEY_ID", "stale-key")

	c, err := Acquire(context.Background(), keysConfig())
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, "AKIAEXAMPLE", os.Getenv("AWS_ACCESS_KEY_ID"))
	assert.Equal(t, "secret", os.Getenv("AWS_SECRET_ACCESS_KEY"))
	assert.Equal(t, "token", os.Getenv("AWS_SESSION_TOKEN"))
	assert.Equal(t, "eu-central-1", os.Getenv("AWS_REGION"))
	// A keys run never inherits a stale profile.
	_, hasProfile := os.LookupEnv("AWS_PROFILE")
	assert.False(t, hasProfile)
}

func TestAcquire_ProfileModeSetsProfile(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "stale-key")

	// The profile must resolve in the shared config for Acquire to succeed;
	// point the SDK at a file that defines it so the test is hermetic.
	sharedConfig := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(sharedConfig, []byte("[profile tenants]\nregion = us-east-1\n"), 0600))
	t.Setenv("AWS_CONFIG_FILE", sharedConfig)

	cfg := &config.Config{
		Slug:           "acme",
		Region:         "us-east-1",
		CredentialMode: config.CredentialModeProfile,
		Profile:        "tenants",
	}

	c, err := Acquire(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, "tenants", os.Getenv("AWS_PROFILE"))
	_, hasKey := os.LookupEnv("AWS_ACCESS_KEY_ID")
	assert.False(t, hasKey)
}

func TestRelease_RestoresPreviousEnvironment(t *testing.T) {
	t.Setenv("AWS_PROFILE", "previous-profile")
	t.Setenv("AWS_REGION", "previous-region")
	os.Unsetenv("AWS_SESSION_TOKEN")

	c, err := Acquire(context.Background(), keysConfig())
	require.NoError(t, err)

	c.Release()

	assert.Equal(t, "previous-profile", os.Getenv("AWS_PROFILE"))
	assert.Equal(t, "previous-region", os.Getenv("AWS_REGION"))
	_, hasToken := os.LookupEnv("AWS_SESSION_TOKEN")
	assert.False(t, hasToken)
}

func TestRelease_Idempotent(t *testing.T) {
	t.Setenv("AWS_REGION", "previous-region")

	c, err := Acquire(context.Background(), keysConfig())
	require.NoError(t, err)

	c.Release()
	os.Setenv("AWS_REGION", "changed-after-release")
	c.Release()

	assert.Equal(t, "changed-after-release", os.Getenv("AWS_REGION"))
}

func TestAcquire_UnsupportedModeRestores(t *testing.T) {
	t.Setenv("AWS_REGION", "previous-region")

	cfg := keysConfig()
	cfg.CredentialMode = "mystery"

	_, err := Acquire(context.Background(), cfg)

	require.Error(t, err)
	assert.Equal(t, "previous-region", os.Getenv("AWS_REGION"))
}

func TestAWS_CarriesRegion(t *testing.T) {
	c, err := Acquire(context.Background(), keysConfig())
	require.NoError(t, err)
	defer c.Release()

	assert.Equal(t, "eu-central-1", c.AWS().Region)
}
