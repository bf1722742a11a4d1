package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	t.Parallel()
	content := `
tenant_name: "Acme Corp"
environment: staging
region: eu-central-1
public_bucket: acme-public
private_bucket: acme-private
db_username: app
backend_image_tag: v1.0.0
function_image_tag: v1.0.0
function_image_tags:
  billing: v1.0.1
`
	path := filepath.Join(t.TempDir(), "tenant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "acme-corp", cfg.Slug)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "v1.0.1", cfg.FunctionTag("billing"))
	assert.Equal(t, DefaultDBName, cfg.DBName)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile_BadYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tenant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tenant_name: [unclosed"), 0600))

	_, err := LoadFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal yaml")
}
