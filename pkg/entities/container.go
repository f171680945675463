package entities

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cuemby/anchorage/pkg/errors"
	"github.com/cuemby/anchorage/pkg/lifecycle"
)

// ContainerConfig is the decoded (but not yet normalized) per-instance
// configuration, the shape YAML decoding of one `services.*.instances.*`
// entry produces.
type ContainerConfig struct {
	Image           string
	Command         []string
	Ports           map[string]interface{}
	Env             map[string]interface{}
	Volumes         map[string]interface{}
	ContainerVolumes []string
	VolumesFrom     []string
	Links           map[string]string
	Privileged      bool
	NetworkMode     string
	PIDMode         string
	Restart         interface{}
	DNS             []string
	StopTimeout     int
	CPUShares       int64
	MemoryLimit     string
	SwapLimit       string
	Workdir         string
	Lifecycle       map[string][]map[string]interface{}
}

// Container is one instance of a Service, bound to a Ship.
type Container struct {
	Name    string
	Ship    *Ship
	Service *Service

	Image   string
	Command []string

	Ports map[string]PortSpec
	Env   map[string]string

	Volumes          map[string]VolumeBinding
	ContainerVolumes map[string]bool
	VolumesFrom      map[string]bool
	Links            map[string]string

	Privileged  bool
	NetworkMode string
	PIDMode     string

	RestartPolicy RestartPolicy
	DNS           []string
	StopTimeout   int

	CPUShares    int64
	MemLimit     int64
	MemswapLimit int64

	Workdir string

	lifecycleSpecs map[lifecycle.State][]map[string]interface{}

	status Status
}

// NewContainer normalizes cfg into a Container bound to ship and
// registered on service. envName seeds the MAESTRO_ENVIRONMENT_NAME
// synthetic env variable. Lifecycle check specs are stored but not
// built into Probes yet — see BuildLifecycleProbes.
func NewContainer(name string, ship *Ship, service *Service, cfg ContainerConfig, envName string) (*Container, error) {
	c := &Container{
		Name:    name,
		Ship:    ship,
		Service: service,
		Image:   cfg.Image,
		Command: cfg.Command,
	}
	if c.Image == "" {
		c.Image = service.Image
	}

	subject := fmt.Sprintf("container %s", name)

	ports, err := ParsePorts(subject, cfg.Ports)
	if err != nil {
		return nil, err
	}
	c.Ports = ports

	c.Env = map[string]string{}
	for k, v := range service.Env {
		c.Env[k] = v
	}
	for k, v := range cfg.Env {
		c.Env[k] = envValueToString(v)
	}

	volumes, err := ParseVolumes(subject, cfg.Volumes, service.SchemaVersion)
	if err != nil {
		return nil, err
	}
	c.Volumes = volumes

	c.ContainerVolumes = map[string]bool{}
	for _, v := range cfg.ContainerVolumes {
		c.ContainerVolumes[v] = true
	}
	for _, v := range c.Volumes {
		if c.ContainerVolumes[v.Bind] {
			return nil, errors.NewConfigurationError(subject, "conflict between bind-mounted volume and container-only volume on %s", v.Bind)
		}
	}

	c.VolumesFrom = map[string]bool{}
	for _, v := range cfg.VolumesFrom {
		c.VolumesFrom[v] = true
	}

	c.Links = map[string]string{}
	for k, v := range cfg.Links {
		c.Links[k] = v
	}

	c.Privileged = cfg.Privileged
	c.NetworkMode = cfg.NetworkMode
	c.PIDMode = cfg.PIDMode

	restart, err := ParseRestartPolicy(subject, cfg.Restart)
	if err != nil {
		return nil, err
	}
	c.RestartPolicy = restart

	c.DNS = cfg.DNS

	c.StopTimeout = cfg.StopTimeout
	if c.StopTimeout == 0 {
		c.StopTimeout = 10
	}

	c.CPUShares = cfg.CPUShares
	memLimit, err := ParseBytes(subject, cfg.MemoryLimit)
	if err != nil {
		return nil, err
	}
	c.MemLimit = memLimit
	swapLimit, err := ParseBytes(subject, cfg.SwapLimit)
	if err != nil {
		return nil, err
	}
	c.MemswapLimit = swapLimit

	c.Workdir = cfg.Workdir

	c.Env["MAESTRO_ENVIRONMENT_NAME"] = envName
	c.Env["SERVICE_NAME"] = service.Name
	c.Env["CONTAINER_NAME"] = name
	c.Env["CONTAINER_HOST_ADDRESS"] = ship.IP
	c.Env["DOCKER_IMAGE"] = c.Image
	c.Env["DOCKER_TAG"] = c.ImageTag()

	specs := map[lifecycle.State][]map[string]interface{}{}
	for state, raw := range cfg.Lifecycle {
		specs[lifecycle.State(state)] = raw
	}
	c.lifecycleSpecs = specs

	service.RegisterContainer(c)
	return c, nil
}

// HasLifecycleChecks reports whether any probes are declared for state.
func (c *Container) HasLifecycleChecks(state lifecycle.State) bool {
	return len(c.lifecycleSpecs[state]) > 0
}

// BuildLifecycleProbes builds the ordered probes declared for state,
// resolving "exec" probes against execer and containerID. Probes are
// built on demand rather than at construction time because exec probes
// need the container's engine-assigned ID, which only exists once the
// container has actually been created.
func (c *Container) BuildLifecycleProbes(execer lifecycle.Execer, containerID string, state lifecycle.State) ([]lifecycle.Probe, error) {
	specs := c.lifecycleSpecs[state]
	probes := make([]lifecycle.Probe, 0, len(specs))
	for _, spec := range specs {
		probe, err := lifecycle.FromConfig(c, execer, containerID, spec)
		if err != nil {
			return nil, errors.WrapConfigurationError(c.Name, err, "invalid lifecycle check for state %q", state)
		}
		probes = append(probes, probe)
	}
	return probes, nil
}

// envValueToString flattens a YAML-decoded env value: scalars pass
// through as strings, and nested lists are space-joined recursively.
func envValueToString(v interface{}) string {
	switch val := v.(type) {
	case []interface{}:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = envValueToString(e)
		}
		return strings.Join(parts, " ")
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// ShortID returns the first 7 characters of the container's engine ID,
// or "-" if it has none.
func (c *Container) ShortID() string {
	if c.status.ID == "" {
		return "-"
	}
	if len(c.status.ID) <= 7 {
		return c.status.ID
	}
	return c.status.ID[:7]
}

// ImageRepository and ImageTag split Image into its repository and tag
// components. A trailing ":tag" is only treated as a tag if nothing
// after the colon contains a slash (otherwise it's a registry port).
func (c *Container) imageParts() (string, string) {
	idx := strings.LastIndex(c.Image, ":")
	if idx < 0 {
		return c.Image, "latest"
	}
	repo, tag := c.Image[:idx], c.Image[idx+1:]
	if strings.Contains(tag, "/") {
		return c.Image, "latest"
	}
	return repo, tag
}

func (c *Container) ImageRepository() string { repo, _ := c.imageParts(); return repo }
func (c *Container) ImageTag() string        { _, tag := c.imageParts(); return tag }

// ShortImageAndID combines ImageTag and ShortID, e.g. "latest:a1b2c3d".
func (c *Container) ShortImageAndID() string {
	return fmt.Sprintf("%s:%s", c.ImageTag(), c.ShortID())
}

// Status returns the container's most recently cached inspection
// result. Callers that need a fresh view re-inspect through the Ship
// client and call SetStatus.
func (c *Container) Status() Status { return c.status }

// SetStatus updates the cached inspection result.
func (c *Container) SetStatus(s Status) { c.status = s }

// DeclaredVolumeTargets returns the full set of declared local volume targets within
// this container (bind-mounted plus container-only), not including
// volumes mounted from other containers.
func (c *Container) DeclaredVolumeTargets() []string {
	set := map[string]bool{}
	for target := range c.ContainerVolumes {
		set[target] = true
	}
	for _, v := range c.Volumes {
		set[v.Bind] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ShipAddress satisfies lifecycle.ContainerRef: the address lifecycle
// probes should dial or request against.
func (c *Container) ShipAddress() string { return c.Ship.IP }

// ExternalPort satisfies lifecycle.ContainerRef.
func (c *Container) ExternalPort(name string) (string, string, bool) {
	p, ok := c.Ports[name]
	if !ok {
		return "", "", false
	}
	return p.ExternalNumber(), p.ExternalProto(), true
}

// LinkVariables builds the environment variables other containers use
// to discover this one: "<NAME>_HOST", one "<NAME>_<PORT>_PORT" per
// named port, and optionally "<NAME>_<PORT>_INTERNAL_PORT".
func (c *Container) LinkVariables(addInternal bool) map[string]string {
	basename := envVarName(c.Name)
	links := map[string]string{basename + "_HOST": c.Ship.IP}

	names := make([]string, 0, len(c.Ports))
	for name := range c.Ports {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec := c.Ports[name]
		portName := envVarName(name)
		links[basename+"_"+portName+"_PORT"] = spec.ExternalNumber()
		if addInternal {
			links[basename+"_"+portName+"_INTERNAL_PORT"] = spec.ExposedNumber()
		}
	}
	return links
}
