package entities

import (
	"sort"
	"strings"
)

// envVarName uppercases n and replaces every non-word character with an
// underscore, the scheme link variables and the instances list are
// named with.
func envVarName(n string) string {
	var b strings.Builder
	for _, r := range n {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.ToUpper(b.String())
}

// Service is a named group of Container instances sharing an image.
type Service struct {
	Name string
	// Image is the registry reference instances default to.
	Image string
	// Omit excludes this service from no-argument bulk commands.
	Omit bool
	// Env is the base environment every instance's env is overlaid on.
	Env map[string]string
	// SchemaVersion threads the legacy volume-schema quirk through to
	// Container construction.
	SchemaVersion int

	requires  map[*Service]bool
	wantsInfo map[*Service]bool
	neededFor map[*Service]bool

	containers map[string]*Container
}

// NewService constructs an empty Service ready to accept dependency
// declarations and container registrations.
func NewService(name, image string, omit bool) *Service {
	return &Service{
		Name:       name,
		Image:      image,
		Omit:       omit,
		Env:        map[string]string{},
		requires:   map[*Service]bool{},
		wantsInfo:  map[*Service]bool{},
		neededFor:  map[*Service]bool{},
		containers: map[string]*Container{},
	}
}

// AddDependency declares that s depends on dep. The caller must also
// call dep.AddDependent(s) to keep the reverse set consistent.
func (s *Service) AddDependency(dep *Service) { s.requires[dep] = true }

// AddDependent declares that dep depends on s.
func (s *Service) AddDependent(dep *Service) { s.neededFor[dep] = true }

// AddWantsInfo declares that s wants link-variable information about
// dep without a hard ordering dependency on it.
func (s *Service) AddWantsInfo(dep *Service) { s.wantsInfo[dep] = true }

// Dependencies returns the direct (non-transitive) requires set.
func (s *Service) Dependencies() []*Service { return setToSlice(s.requires) }

// WantsInfo returns the soft-dependency set.
func (s *Service) WantsInfo() []*Service { return setToSlice(s.wantsInfo) }

// Requires returns the transitive closure of s's dependencies. A walk
// that revisits a node (a requires-cycle) stops expanding that branch
// rather than looping forever; Graph.Validate is what reports requires
// cycles as a fatal configuration error.
func (s *Service) Requires() []*Service {
	seen := map[*Service]bool{}
	s.collectRequires(seen)
	delete(seen, s)
	return setToSlice(seen)
}

func (s *Service) collectRequires(seen map[*Service]bool) {
	for dep := range s.requires {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		dep.collectRequires(seen)
	}
}

// NeededFor returns the transitive closure of services that (directly
// or indirectly) depend on s.
func (s *Service) NeededFor() []*Service {
	seen := map[*Service]bool{}
	s.collectNeededFor(seen)
	delete(seen, s)
	return setToSlice(seen)
}

func (s *Service) collectNeededFor(seen map[*Service]bool) {
	for dep := range s.neededFor {
		if seen[dep] {
			continue
		}
		seen[dep] = true
		dep.collectNeededFor(seen)
	}
}

// RegisterContainer records c as an instance of s. Duplicate instance
// names overwrite; the graph builder is responsible for preventing that
// from happening silently (see Graph.Validate).
func (s *Service) RegisterContainer(c *Container) {
	s.containers[c.Name] = c
}

// Containers returns this service's instances in lexicographic order of
// instance name.
func (s *Service) Containers() []*Container {
	names := make([]string, 0, len(s.containers))
	for name := range s.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]*Container, len(names))
	for i, name := range names {
		result[i] = s.containers[name]
	}
	return result
}

// LinkVariables returns the environment variables describing where to
// find every instance of this service, plus a "<SVC>_INSTANCES"
// variable listing instance names in iteration order.
func (s *Service) LinkVariables(addInternal bool) map[string]string {
	basename := envVarName(s.Name)
	links := map[string]string{}
	instances := make([]string, 0, len(s.containers))
	for _, c := range s.Containers() {
		instances = append(instances, c.Name)
		for name, value := range c.LinkVariables(addInternal) {
			links[basename+"_"+name] = value
		}
	}
	links[basename+"_INSTANCES"] = strings.Join(instances, ",")
	return links
}

func setToSlice(set map[*Service]bool) []*Service {
	out := make([]*Service, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
