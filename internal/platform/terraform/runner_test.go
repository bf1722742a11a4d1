package terraform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenantctl/tenantctl/internal/fault"
)

// capture records the invocations made through runCommand.
type capture struct {
	dirs  []string
	calls [][]string

	stdout []byte
	stderr string
	err    error
}

func stubRun(t *testing.T, c *capture) {
	t.Helper()
	orig := runCommand
	t.Cleanup(func() { runCommand = orig })
	runCommand = func(_ context.Context, dir string, args ...string) ([]byte, string, error) {
		c.dirs = append(c.dirs, dir)
		c.calls = append(c.calls, args)
		return c.stdout, c.stderr, c.err
	}
}

func TestApply_Arguments(t *testing.T) {
	c := &capture{}
	stubRun(t, c)
	r := NewRunner("infra")

	err := r.Apply(context.Background(), "envs/acme.tfvars", "aws_ecr_repository.units")

	require.NoError(t, err)
	require.Len(t, c.calls, 1)
	assert.Equal(t, "infra", c.dirs[0])
	assert.Equal(t, []string{
		"apply", "-input=false", "-auto-approve", "-no-color",
		"-var-file=envs/acme.tfvars", "-target=aws_ecr_repository.units",
	}, c.calls[0])
}

func TestApply_FailureSurfacesStderrVerbatim(t *testing.T) {
	c := &capture{stderr: "Error: creating RDS DB Instance: InsufficientDBInstanceCapacity\n", err: errors.New("exit status 1")}
	stubRun(t, c)
	r := NewRunner("infra")

	err := r.Apply(context.Background(), "envs/acme.tfvars")

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindProvider))
	assert.Contains(t, err.Error(), "InsufficientDBInstanceCapacity")
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestDestroy_Arguments(t *testing.T) {
	c := &capture{}
	stubRun(t, c)
	r := NewRunner("infra")

	err := r.Destroy(context.Background(), "envs/acme.tfvars")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"destroy", "-input=false", "-auto-approve", "-no-color", "-var-file=envs/acme.tfvars",
	}, c.calls[0])
}

func TestSelectWorkspace(t *testing.T) {
	c := &capture{}
	stubRun(t, c)
	r := NewRunner("infra")

	err := r.SelectWorkspace(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, []string{"workspace", "select", "-or-create=true", "acme"}, c.calls[0])
}

func TestOutputs(t *testing.T) {
	c := &capture{stdout: []byte(`{
		"load_balancer_dns": {"value": "acme-lb.eu-central-1.elb.amazonaws.com"},
		"cdn_distribution_id": {"value": "E2EXAMPLE"},
		"node_count": {"value": 3},
		"nested": {"value": {"k": "v"}}
	}`)}
	stubRun(t, c)
	r := NewRunner("infra")

	outputs, err := r.Outputs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "acme-lb.eu-central-1.elb.amazonaws.com", outputs["load_balancer_dns"])
	assert.Equal(t, "E2EXAMPLE", outputs["cdn_distribution_id"])
	assert.Equal(t, "3", outputs["node_count"])
	_, hasNested := outputs["nested"]
	assert.False(t, hasNested)
}

func TestOutputs_Unparseable(t *testing.T) {
	c := &capture{stdout: []byte("not json")}
	stubRun(t, c)
	r := NewRunner("infra")

	_, err := r.Outputs(context.Background())

	require.Error(t, err)
	assert.True(t, fault.Is(err, fault.KindProvider))
}
