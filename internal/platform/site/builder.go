// Package site adapts the npm toolchain to the deploy.SiteBuilder contract.
package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// binary is the build tool invoked for every operation.
const binary = "npm"

// outputDir is where the build writes its deployable assets, relative to
// the source directory.
const outputDir = "dist"

// runCommand executes the tool inside dir. Replaced in tests.
var runCommand = func(ctx context.Context, dir string, args ...string) (string, error) {
	// #nosec G204 - args are trusted flag constants
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	return combined.String(), err
}

// Builder drives the frontend build.
type Builder struct{}

// NewBuilder creates an npm-backed site builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build installs dependencies when absent, compiles the frontend in the
// given mode, and returns the directory holding the deployable assets.
func (b *Builder) Build(ctx context.Context, sourceDir, mode string) (string, error) {
	if _, err := os.Stat(filepath.Join(sourceDir, "node_modules")); os.IsNotExist(err) {
		if out, err := runCommand(ctx, sourceDir, "ci"); err != nil {
			return "", fmt.Errorf("npm ci in %s failed: %w: %s", sourceDir, err, strings.TrimSpace(out))
		}
	}

	if out, err := runCommand(ctx, sourceDir, "run", "build", "--", "--mode", mode); err != nil {
		return "", fmt.Errorf("npm run build in %s failed: %w: %s", sourceDir, err, strings.TrimSpace(out))
	}

	dist := filepath.Join(sourceDir, outputDir)
	if _, err := os.Stat(dist); err != nil {
		return "", fmt.Errorf("build produced no output directory at %s: %w", dist, err)
	}
	return dist, nil
}
