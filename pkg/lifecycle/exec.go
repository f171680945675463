package lifecycle

import (
	"context"
	"fmt"
	"time"
)

// ExecProbe succeeds when Command, run inside ContainerID on the
// container's engine, exits 0.
type ExecProbe struct {
	Execer      Execer
	ContainerID string
	Command     []string
	Timeout     time.Duration
}

// NewExecProbe returns an ExecProbe with a 10 second default timeout.
func NewExecProbe(execer Execer, containerID string, command []string) *ExecProbe {
	return &ExecProbe{Execer: execer, ContainerID: containerID, Command: command, Timeout: 10 * time.Second}
}

func (p *ExecProbe) Test(ctx context.Context) bool {
	if len(p.Command) == 0 || p.Execer == nil {
		return false
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	code, err := p.Execer.ExecInContainer(execCtx, p.ContainerID, p.Command)
	if err != nil {
		return false
	}
	return code == 0
}

func (p *ExecProbe) String() string {
	return fmt.Sprintf("exec(%v in %s)", p.Command, p.ContainerID)
}
