// Package lifecycle implements the lifecycle-check contract: opaque,
// side-effect-free probes that gate a container's transition into the
// "running" or "stopped" state. Probes are plain value objects with a
// single synchronous Test operation; the task engine (pkg/tasks) is the
// only caller and treats every probe kind identically.
package lifecycle

import (
	"context"
	"fmt"
)

// State names a lifecycle state a set of probes gates.
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
)

// Probe is satisfied by every lifecycle check. Test must be
// side-effect-free from the orchestrator's point of view, must return
// false on any failure rather than panic or block indefinitely, and
// must be safe to invoke concurrently with other probes (including
// other invocations of itself).
type Probe interface {
	Test(ctx context.Context) bool
	String() string
}

// ContainerRef is the narrow view of a container a probe needs to
// resolve "where do I connect to / what do I execute" without the
// lifecycle package importing the entity graph.
type ContainerRef interface {
	ShipAddress() string
	ExternalPort(name string) (number string, proto string, ok bool)
}

// Execer runs a command inside a running container and reports its
// exit code. Implemented by pkg/ship's Client so exec probes can be
// constructed without lifecycle importing the host-access layer.
type Execer interface {
	ExecInContainer(ctx context.Context, containerID string, command []string) (exitCode int, err error)
}

// Kind identifies the probe flavor in a lifecycle config entry.
type Kind string

const (
	KindTCP   Kind = "tcp"
	KindHTTP  Kind = "http"
	KindExec  Kind = "exec"
	KindSleep Kind = "sleep"
)

func unsupportedKind(kind string) error {
	return fmt.Errorf("unsupported lifecycle check type %q", kind)
}
