// Package infra implements the infrastructure convergence phase: the full
// resource graph is converged and the endpoints the later phases and the
// operator need are read back from the provider outputs.
package infra

import (
	"fmt"

	"github.com/tenantctl/tenantctl/internal/deploy"
	"github.com/tenantctl/tenantctl/internal/fault"
)

// Output names published by the resource graph.
const (
	outputLoadBalancerDNS = "load_balancer_dns"
	outputCDNDomain       = "cdn_domain"
	outputCDNID           = "cdn_distribution_id"
	outputLogBucket       = "log_bucket"
)

// Phase implements deploy.Phase.
type Phase struct{}

// NewPhase creates the infrastructure convergence phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements deploy.Phase.
func (p *Phase) Name() string {
	return "infrastructure"
}

// Run converges the full resource graph and records the resulting
// endpoints. Every unit that was not skipped must already have a verified
// publish, otherwise the runtime would reference artifacts that do not
// exist.
func (p *Phase) Run(ctx *deploy.Context) error {
	if err := ctx.State.RequirePublished(ctx.Config.Units()); err != nil {
		return err
	}

	if err := ctx.Provider.Apply(ctx, ctx.VarFile); err != nil {
		return err
	}

	outputs, err := ctx.Provider.Outputs(ctx)
	if err != nil {
		return fmt.Errorf("failed to read outputs: %w", err)
	}

	lb, ok := outputs[outputLoadBalancerDNS]
	if !ok || lb == "" {
		return fault.New(fault.KindProvider, "read outputs",
			"required output %q missing", outputLoadBalancerDNS)
	}
	domain, ok := outputs[outputCDNDomain]
	if !ok || domain == "" {
		return fault.New(fault.KindProvider, "read outputs",
			"required output %q missing", outputCDNDomain)
	}

	ctx.State.LoadBalancerDNS = lb
	ctx.State.CDNDomain = domain
	ctx.State.CDNID = outputs[outputCDNID]
	ctx.State.LogBucket = outputs[outputLogBucket]

	ctx.Observer.Event(deploy.Event{
		Type:    deploy.EventResourceConverged,
		Phase:   p.Name(),
		Message: "resource graph converged",
		Fields: map[string]string{
			"load_balancer": lb,
			"cdn_domain":    domain,
		},
	})
	return nil
}
