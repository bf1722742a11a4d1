// Package terraform adapts the Terraform CLI to the deploy.Provider
// contract.
//
// The orchestrator never models resources itself; it drives
// plan/apply/destroy/output over a per-tenant variable set and surfaces the
// tool's stderr verbatim when an invocation fails, so operators can
// correlate with provider-side logs.
package terraform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/tenantctl/tenantctl/internal/fault"
)

// binary is the provider tool invoked for every operation.
const binary = "terraform"

// runCommand executes the tool and returns stdout and stderr separately.
// Replaced in tests.
var runCommand = func(ctx context.Context, dir string, args ...string) ([]byte, string, error) {
	full := append([]string{"-chdir=" + dir}, args...)
	// #nosec G204 - args are built from trusted flag constants and validated paths
	cmd := exec.CommandContext(ctx, binary, full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.String(), err
}

// Runner drives the Terraform CLI in a fixed working directory.
type Runner struct {
	dir string
}

// NewRunner creates a runner for the given provider working directory.
func NewRunner(dir string) *Runner {
	return &Runner{dir: dir}
}

// run executes one invocation and classifies a non-zero exit as a provider
// fault carrying the tool's stderr verbatim.
func (r *Runner) run(ctx context.Context, op string, args ...string) ([]byte, error) {
	stdout, stderr, err := runCommand(ctx, r.dir, args...)
	if err != nil {
		detail := strings.TrimSpace(stderr)
		if detail == "" {
			detail = strings.TrimSpace(string(stdout))
		}
		return nil, fault.Wrap(fault.KindProvider, op, fmt.Errorf("%w: %s", err, detail))
	}
	return stdout, nil
}

// Init prepares the working directory.
func (r *Runner) Init(ctx context.Context) error {
	_, err := r.run(ctx, "terraform init", "init", "-input=false", "-no-color")
	return err
}

// SelectWorkspace switches to the named workspace, creating it on first
// use. One workspace per tenant keeps state files disjoint.
func (r *Runner) SelectWorkspace(ctx context.Context, name string) error {
	_, err := r.run(ctx, "terraform workspace select",
		"workspace", "select", "-or-create=true", name)
	return err
}

// Apply converges the resource graph. Targets, when given, restrict the
// apply to a subset of the graph.
func (r *Runner) Apply(ctx context.Context, varFile string, targets ...string) error {
	args := []string{"apply", "-input=false", "-auto-approve", "-no-color", "-var-file=" + varFile}
	for _, t := range targets {
		args = append(args, "-target="+t)
	}
	_, err := r.run(ctx, "terraform apply", args...)
	return err
}

// Destroy tears down everything the variable set describes.
func (r *Runner) Destroy(ctx context.Context, varFile string) error {
	_, err := r.run(ctx, "terraform destroy",
		"destroy", "-input=false", "-auto-approve", "-no-color", "-var-file="+varFile)
	return err
}

// outputValue is one entry of `terraform output -json`.
type outputValue struct {
	Value any `json:"value"`
}

// Outputs returns the root module's outputs. Non-string values are
// formatted; nested structures are skipped.
func (r *Runner) Outputs(ctx context.Context) (map[string]string, error) {
	stdout, err := r.run(ctx, "terraform output", "output", "-json", "-no-color")
	if err != nil {
		return nil, err
	}

	var raw map[string]outputValue
	if err := json.Unmarshal(stdout, &raw); err != nil {
		return nil, fault.Wrap(fault.KindProvider, "terraform output", fmt.Errorf("unparseable output: %w", err))
	}

	outputs := make(map[string]string, len(raw))
	for name, v := range raw {
		switch val := v.Value.(type) {
		case string:
			outputs[name] = val
		case float64, bool:
			outputs[name] = fmt.Sprintf("%v", val)
		}
	}
	return outputs, nil
}
