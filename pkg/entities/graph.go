package entities

import (
	"sort"

	"github.com/cuemby/anchorage/pkg/errors"
)

// Graph is the whole deployment: every configured Ship and Service,
// with their Containers reachable through the Services.
type Graph struct {
	Ships      map[string]*Ship
	Services   map[string]*Service
	Registries map[string]*Registry
}

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{Ships: map[string]*Ship{}, Services: map[string]*Service{}, Registries: map[string]*Registry{}}
}

// Validate checks the whole-deployment invariants a single Service or
// Container construction can't see on its own: global uniqueness of
// ship, service, and instance names, and acyclicity of the requires
// relation. The per-container config invariants (port/volume/restart
// validity) are already enforced at construction time in NewContainer.
func (g *Graph) Validate() error {
	instanceNames := map[string]string{} // instance name -> owning service
	serviceNames := make([]string, 0, len(g.Services))

	for svcName, svc := range g.Services {
		serviceNames = append(serviceNames, svcName)
		for _, c := range svc.Containers() {
			if owner, seen := instanceNames[c.Name]; seen {
				return errors.NewConfigurationError(c.Name, "instance name %q is used by both service %q and service %q", c.Name, owner, svcName)
			}
			instanceNames[c.Name] = svcName
		}
	}
	sort.Strings(serviceNames)

	for _, name := range serviceNames {
		if err := detectRequiresCycle(g.Services[name]); err != nil {
			return err
		}
	}

	return nil
}

// detectRequiresCycle walks the direct requires edges from svc looking
// for a path back to svc itself.
func detectRequiresCycle(svc *Service) error {
	visiting := map[*Service]bool{}
	var walk func(s *Service) error
	walk = func(s *Service) error {
		if visiting[s] {
			return errors.NewConfigurationError(s.Name, "cycle detected in requires graph at service %q", s.Name)
		}
		visiting[s] = true
		defer delete(visiting, s)
		for _, dep := range s.Dependencies() {
			if err := walk(dep); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(svc)
}
