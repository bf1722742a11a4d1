// Package docker adapts the Docker CLI to the deploy.ImageBuilder contract.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tenantctl/tenantctl/internal/deploy"
)

// binary is the build/publish tool invoked for every operation.
const binary = "docker"

// runCommand executes the tool with optional stdin. Replaced in tests.
var runCommand = func(ctx context.Context, stdin string, args ...string) (string, error) {
	// #nosec G204 - args are built from trusted flag constants and validated refs
	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	err := cmd.Run()
	return combined.String(), err
}

// Builder drives the Docker CLI.
type Builder struct{}

// NewBuilder creates a Docker-backed image builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Login authenticates against a registry server. The password goes through
// stdin so it never appears in the process list.
func (b *Builder) Login(ctx context.Context, server, username, password string) error {
	out, err := runCommand(ctx, password, "login", "--username", username, "--password-stdin", server)
	if err != nil {
		return fmt.Errorf("docker login to %s failed: %w: %s", server, err, strings.TrimSpace(out))
	}
	return nil
}

// Build produces a local image from the source directory and returns its
// reference.
func (b *Builder) Build(ctx context.Context, opts deploy.BuildOptions) (string, error) {
	args := []string{"build", "-t", opts.LocalTag}
	if opts.BuildFile != "" {
		args = append(args, "-f", opts.BuildFile)
	}
	if opts.Platform != "" {
		args = append(args, "--platform", opts.Platform)
	}
	args = append(args, opts.SourceDir)

	out, err := runCommand(ctx, "", args...)
	if err != nil {
		return "", fmt.Errorf("docker build of %s failed: %w: %s", opts.SourceDir, err, strings.TrimSpace(out))
	}
	return opts.LocalTag, nil
}

// Push publishes a local image under a remote reference.
func (b *Builder) Push(ctx context.Context, localImage, remoteRef string) error {
	if out, err := runCommand(ctx, "", "tag", localImage, remoteRef); err != nil {
		return fmt.Errorf("docker tag %s failed: %w: %s", remoteRef, err, strings.TrimSpace(out))
	}
	if out, err := runCommand(ctx, "", "push", remoteRef); err != nil {
		return fmt.Errorf("docker push %s failed: %w: %s", remoteRef, err, strings.TrimSpace(out))
	}
	return nil
}
