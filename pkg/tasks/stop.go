package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/anchorage/pkg/entities"
	anchorerrors "github.com/cuemby/anchorage/pkg/errors"
	"github.com/cuemby/anchorage/pkg/lifecycle"
)

// StopTask stops a running container and waits for its declared
// "stopped" lifecycle probes (if any) to confirm it actually went
// down. A stop that doesn't reach "stopped" cleanly is reported as a
// warning, not raised as an error — it's usually just the container
// taking longer than its stop_timeout.
type StopTask struct {
	Task
}

// NewStopTask builds a StopTask.
func NewStopTask(t Task) StopTask { return StopTask{t} }

// Run executes the task.
func (s StopTask) Run(ctx context.Context) {
	runID, start := s.begin("stop")
	var failed bool
	var cause error
	defer func() { s.finish("stop", runID, start, failed, cause) }()

	s.Sink.Reset()
	s.Sink.Pending("checking container...")

	status, err := s.Engine.InspectContainer(ctx, s.Container.Name)
	if err != nil {
		s.Sink.Commit(fmt.Sprintf("%-25s", "-"))
		s.Sink.Commit("host down")
		failed = true
		cause = err
		return
	}
	s.Container.SetStatus(status)

	if !status.Present || !status.Running {
		s.Sink.Commit(fmt.Sprintf("%-25s", s.Container.ShortImageAndID()))
		s.Sink.Commit("down")
		return
	}

	s.Sink.Commit(fmt.Sprintf("%-25s", s.Container.ShortImageAndID()))
	s.Sink.Pending("stopping service...")

	timeout := time.Duration(s.Container.StopTimeout) * time.Second
	if err := s.Engine.StopContainer(ctx, status.ID, timeout); err != nil {
		s.reportStopFailure(err)
		failed, cause = true, err
		return
	}

	ok, err := s.checkForState(ctx, status.ID, lifecycle.StateStopped, func(st entities.Status) bool {
		return !st.Present || !st.Running
	})
	if err != nil {
		s.reportStopFailure(err)
		failed, cause = true, err
		return
	}
	if !ok {
		stopErr := anchorerrors.NewOrchestrationError("failed stopped lifecycle checks for %s", s.Container.Name)
		s.reportStopFailure(stopErr)
		failed, cause = true, stopErr
		return
	}

	s.Sink.Commit("stopped")
}

func (s StopTask) reportStopFailure(cause error) {
	failure := anchorerrors.NewStopFailure(s.Container.Name, cause)
	s.Sink.Commit("failed: " + failure.Error())
}
