package deploy

import (
	"fmt"

	"github.com/tenantctl/tenantctl/internal/config"
)

// State holds the shared results of deployment phases.
// It is progressively populated as each phase completes and is read by
// subsequent phases that gate on earlier results. Later phases may read any
// earlier phase's outputs but never the reverse.
type State struct {
	// Identity result (populated before the pipeline starts)
	AccountID string

	// Registry bootstrap results: unit name -> repository address
	// (host/repository, without tag).
	RegistryAddresses map[string]string

	// Build & publish results
	Published map[string]bool // unit name -> push verified in registry
	Skipped   map[string]bool // unit name -> skipped, source dir absent

	// Infrastructure convergence results
	LoadBalancerDNS string
	CDNDomain       string
	CDNID           string // optional; empty when no distribution was produced
	LogBucket       string // optional auxiliary bucket
}

// NewState creates an empty deployment state.
func NewState() *State {
	return &State{
		RegistryAddresses: make(map[string]string),
		Published:         make(map[string]bool),
		Skipped:           make(map[string]bool),
	}
}

// ImageRef returns the full remote reference for a unit, or an error if the
// registry bootstrap did not produce an address for it.
func (s *State) ImageRef(unit config.DeployableUnit) (string, error) {
	addr, ok := s.RegistryAddresses[unit.Name]
	if !ok || addr == "" {
		return "", fmt.Errorf("no registry address for unit %q", unit.Name)
	}
	return addr + ":" + unit.Tag, nil
}

// RequireRegistryAddresses gates the publish phase: every unit that will be
// pushed must have a registry address.
func (s *State) RequireRegistryAddresses(units []config.DeployableUnit) error {
	for _, u := range units {
		if addr := s.RegistryAddresses[u.Name]; addr == "" {
			return fmt.Errorf("registry bootstrap produced no address for unit %q", u.Name)
		}
	}
	return nil
}

// RequirePublished gates the convergence phase: every unit that was not
// skipped must have a verified publish.
func (s *State) RequirePublished(units []config.DeployableUnit) error {
	for _, u := range units {
		if s.Skipped[u.Name] {
			continue
		}
		if !s.Published[u.Name] {
			return fmt.Errorf("unit %q has no verified publish", u.Name)
		}
	}
	return nil
}
