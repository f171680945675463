package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/cuemby/anchorage/pkg/entities"
	"github.com/cuemby/anchorage/pkg/errors"
	"github.com/cuemby/anchorage/pkg/log"
	"github.com/cuemby/anchorage/pkg/metrics"
)

// Build turns a decoded File into a validated entity graph: ships and
// registries first, then services (with their requires/wants_info
// edges wired both ways), then each service's instances as Containers
// bound to their ship. Graph.Validate runs last, catching cross-entity
// problems no single construction step can see (duplicate instance
// names, requires cycles).
func Build(file *File) (*entities.Graph, error) {
	graph := entities.NewGraph()

	for name, sc := range file.Ships {
		graph.Ships[name] = buildShip(name, sc)
	}

	for name, rc := range file.Registries {
		graph.Registries[name] = &entities.Registry{
			Name:     name,
			URL:      rc.Registry,
			Username: rc.Username,
			Password: rc.Password,
			Email:    rc.Email,
		}
	}

	for name, svcCfg := range file.Services {
		svc := entities.NewService(name, svcCfg.Image, svcCfg.Omit)
		svc.SchemaVersion = file.Schema.Schema
		for k, v := range svcCfg.Env {
			svc.Env[k] = envValueToString(v)
		}
		graph.Services[name] = svc
	}

	var errs *multierror.Error

	for name, sc := range file.Ships {
		if sc.SSHTunnel != nil && (sc.SSHTunnel.User == "" || sc.SSHTunnel.Key == "") {
			errs = multierror.Append(errs, errors.NewConfigurationError(name, "ssh tunnel requires both user and key"))
		}
	}

	for name, svcCfg := range file.Services {
		svc := graph.Services[name]
		for _, dep := range svcCfg.Requires {
			depSvc, ok := graph.Services[dep]
			if !ok {
				errs = multierror.Append(errs, errors.NewConfigurationError(name, "requires unknown service %q", dep))
				continue
			}
			svc.AddDependency(depSvc)
			depSvc.AddDependent(svc)
		}
		for _, dep := range svcCfg.WantsInfo {
			depSvc, ok := graph.Services[dep]
			if !ok {
				errs = multierror.Append(errs, errors.NewConfigurationError(name, "wants_info references unknown service %q", dep))
				continue
			}
			svc.AddWantsInfo(depSvc)
		}
	}

	for svcName, svcCfg := range file.Services {
		svc := graph.Services[svcName]
		for instName, instCfg := range svcCfg.Instances {
			ship, ok := graph.Ships[instCfg.Ship]
			if !ok {
				errs = multierror.Append(errs, errors.NewConfigurationError(instName, "references unknown ship %q", instCfg.Ship))
				continue
			}
			cfg := entities.ContainerConfig{
				Image:            instCfg.Image,
				Command:          instCfg.Command,
				Ports:            instCfg.Ports,
				Env:              instCfg.Env,
				Volumes:          instCfg.Volumes,
				ContainerVolumes: instCfg.ContainerVolumes,
				VolumesFrom:      instCfg.VolumesFrom,
				Links:            instCfg.Links,
				Privileged:       instCfg.Privileged,
				NetworkMode:      instCfg.Net,
				PIDMode:          instCfg.PID,
				Restart:          instCfg.Restart,
				DNS:              instCfg.DNS,
				StopTimeout:      instCfg.StopTimeout,
				CPUShares:        instCfg.Limits.CPU,
				MemoryLimit:      instCfg.Limits.Memory,
				SwapLimit:        instCfg.Limits.Swap,
				Workdir:          instCfg.Workdir,
				Lifecycle:        instCfg.Lifecycle,
			}
			if _, err := entities.NewContainer(instName, ship, svc, cfg, file.Name); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		svcLogger := log.WithService(svcName)
		svcLogger.Debug().
			Int("instances", len(svcCfg.Instances)).
			Msg("service wired")
	}

	// Every bad service reference and malformed instance is collected
	// above rather than failing on the first one, so a config with
	// several mistakes reports all of them in one pass instead of
	// making the caller fix-and-rerun one error at a time.
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	for name := range graph.Ships {
		metrics.RegisterShip(name)
	}

	log.Logger.Info().
		Int("ships", len(graph.Ships)).
		Int("services", len(graph.Services)).
		Msg("deployment graph built")
	return graph, nil
}

func buildShip(name string, sc ShipConfig) *entities.Ship {
	ship := &entities.Ship{
		Name:       name,
		IP:         sc.IP,
		Endpoint:   sc.Endpoint,
		DockerPort: sc.DockerPort,
		SocketPath: sc.SocketPath,
		Timeout:    sc.Timeout,
		TLS: entities.TLSMaterial{
			Enabled:    sc.TLS,
			Verify:     sc.TLSVerify,
			CACert:     sc.TLSCACert,
			ClientCert: sc.TLSCert,
			ClientKey:  sc.TLSKey,
			SSLVersion: sc.SSLVersion,
		},
	}
	if sc.SSHTunnel != nil {
		port := sc.SSHTunnel.Port
		if port == 0 {
			port = entities.DefaultSSHPort
		}
		ship.SSHTunnel = &entities.SSHTunnel{
			User: sc.SSHTunnel.User,
			Key:  sc.SSHTunnel.Key,
			Port: port,
		}
	}
	return ship
}

// envValueToString flattens a YAML-decoded env value the same way
// entities.NewContainer does for instance-level env: scalars pass
// through as strings, nested lists are space-joined recursively. Kept
// as a small duplicate here (rather than exporting the unexported
// entities helper) since service-level env is assembled before any
// Container exists to normalize it.
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
