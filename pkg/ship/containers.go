package ship

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/cuemby/anchorage/pkg/entities"
)

// InspectContainer reports a container's current engine state. A
// container the engine has never heard of is reported as Status{Present:
// false} with a nil error, not as a failure — callers that poll for a
// container's disappearance must be able to tell "gone" from "host down".
func (c *Client) InspectContainer(ctx context.Context, containerID string) (entities.Status, error) {
	resp, err := c.engine.ContainerInspect(ctx, containerID)
	if client.IsErrNotFound(err) {
		return entities.Status{Present: false}, nil
	}
	if err != nil {
		return entities.Status{}, c.engineErr(err, "inspecting container %s", containerID)
	}

	status := entities.Status{
		Present: true,
		ID:      resp.ID,
		Image:   resp.Image,
		Running: resp.State.Running,
	}
	if t, err := time.Parse(time.RFC3339Nano, resp.State.StartedAt); err == nil {
		status.StartedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, resp.State.FinishedAt); err == nil {
		status.FinishedAt = t
	}
	return status, nil
}

// CreateContainer builds the engine container/host config from c's
// normalized fields and creates (but does not start) the container,
// returning its engine-assigned ID.
func (c *Client) CreateContainer(ctx context.Context, instance *entities.Container) (string, error) {
	cfg, hostCfg := buildConfigs(instance)

	resp, err := c.engine.ContainerCreate(ctx, cfg, hostCfg, nil, nil, instance.Name)
	if err != nil {
		return "", c.engineErr(err, "creating container %s", instance.Name)
	}
	return resp.ID, nil
}

func buildConfigs(instance *entities.Container) (*container.Config, *container.HostConfig) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	portNames := make([]string, 0, len(instance.Ports))
	for name := range instance.Ports {
		portNames = append(portNames, name)
	}
	sort.Strings(portNames)
	for _, name := range portNames {
		spec := instance.Ports[name]
		port := nat.Port(spec.Exposed)
		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{
			HostIP:   spec.External.BindIP,
			HostPort: spec.ExternalNumber(),
		})
	}

	envNames := make([]string, 0, len(instance.Env))
	for k := range instance.Env {
		envNames = append(envNames, k)
	}
	sort.Strings(envNames)
	env := make([]string, 0, len(envNames))
	for _, k := range envNames {
		env = append(env, fmt.Sprintf("%s=%s", k, instance.Env[k]))
	}

	containerVolumes := map[string]struct{}{}
	for target := range instance.ContainerVolumes {
		containerVolumes[target] = struct{}{}
	}

	binds := make([]string, 0, len(instance.Volumes))
	for host, v := range instance.Volumes {
		spec := host + ":" + v.Bind
		if v.ReadOnly {
			spec += ":ro"
		}
		binds = append(binds, spec)
	}
	sort.Strings(binds)

	volumesFrom := make([]string, 0, len(instance.VolumesFrom))
	for name := range instance.VolumesFrom {
		volumesFrom = append(volumesFrom, name)
	}
	sort.Strings(volumesFrom)

	links := make([]string, 0, len(instance.Links))
	for target, alias := range instance.Links {
		links = append(links, fmt.Sprintf("%s:%s", target, alias))
	}
	sort.Strings(links)

	cfg := &container.Config{
		Image:        instance.Image,
		Cmd:          strslice.StrSlice(instance.Command),
		Env:          env,
		WorkingDir:   instance.Workdir,
		ExposedPorts: exposed,
		Volumes:      containerVolumes,
	}

	hostCfg := &container.HostConfig{
		Binds:        binds,
		VolumesFrom:  volumesFrom,
		PortBindings: bindings,
		Privileged:   instance.Privileged,
		NetworkMode:  container.NetworkMode(instance.NetworkMode),
		PidMode:      container.PidMode(instance.PIDMode),
		DNS:          instance.DNS,
		Links:        links,
		RestartPolicy: container.RestartPolicy{
			Name:              instance.RestartPolicy.Name,
			MaximumRetryCount: instance.RestartPolicy.MaximumRetryCount,
		},
		Resources: container.Resources{
			CPUShares:  instance.CPUShares,
			Memory:     instance.MemLimit,
			MemorySwap: instance.MemswapLimit,
		},
	}

	return cfg, hostCfg
}

// StartContainer starts a previously created container.
func (c *Client) StartContainer(ctx context.Context, containerID string) error {
	if err := c.engine.ContainerStart(ctx, containerID, types.ContainerStartOptions{}); err != nil {
		return c.engineErr(err, "starting container %s", containerID)
	}
	return nil
}

// StopContainer asks the engine to stop a container, giving it up to
// timeout to exit cleanly before it is killed.
func (c *Client) StopContainer(ctx context.Context, containerID string, timeout time.Duration) error {
	seconds := int(timeout.Seconds())
	if err := c.engine.ContainerStop(ctx, containerID, container.StopOptions{Timeout: &seconds}); err != nil {
		return c.engineErr(err, "stopping container %s", containerID)
	}
	return nil
}

// RemoveContainer removes a container, optionally its anonymous volumes,
// forcing removal if it is still running.
func (c *Client) RemoveContainer(ctx context.Context, containerID string, removeVolumes bool) error {
	err := c.engine.ContainerRemove(ctx, containerID, types.ContainerRemoveOptions{
		RemoveVolumes: removeVolumes,
		Force:         true,
	})
	if err != nil && !client.IsErrNotFound(err) {
		return c.engineErr(err, "removing container %s", containerID)
	}
	return nil
}

// Logs returns a container's combined stdout/stderr output.
func (c *Client) Logs(ctx context.Context, containerID string) ([]byte, error) {
	stream, err := c.engine.ContainerLogs(ctx, containerID, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return nil, c.engineErr(err, "fetching logs for %s", containerID)
	}
	defer stream.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, stream); err != nil {
		return nil, fmt.Errorf("demuxing logs for %s: %w", containerID, err)
	}
	return append(stdout.Bytes(), stderr.Bytes()...), nil
}

// ExecInContainer runs command inside a running container and reports
// its exit code. It satisfies lifecycle.Execer.
func (c *Client) ExecInContainer(ctx context.Context, containerID string, command []string) (int, error) {
	created, err := c.engine.ContainerExecCreate(ctx, containerID, types.ExecConfig{
		Cmd:          command,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return 0, c.engineErr(err, "creating exec in %s", containerID)
	}

	attach, err := c.engine.ContainerExecAttach(ctx, created.ID, types.ExecStartCheck{})
	if err != nil {
		return 0, c.engineErr(err, "attaching exec in %s", containerID)
	}
	defer attach.Close()

	// Drain the multiplexed stream so the exec actually runs to
	// completion instead of blocking on a full pipe buffer.
	var discard bytes.Buffer
	_, _ = stdcopy.StdCopy(&discard, &discard, attach.Reader)

	inspect, err := c.engine.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return 0, c.engineErr(err, "inspecting exec in %s", containerID)
	}
	return inspect.ExitCode, nil
}
