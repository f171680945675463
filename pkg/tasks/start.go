package tasks

import (
	"context"
	"fmt"

	"github.com/cuemby/anchorage/pkg/entities"
	anchorerrors "github.com/cuemby/anchorage/pkg/errors"
	"github.com/cuemby/anchorage/pkg/lifecycle"
)

// StartTask idempotently starts a container: if it's already running
// it's a no-op; otherwise any stale instance of the same name is
// cleared, the image is pulled if missing or refresh was requested,
// the container is (re)created, started, and finally gated on its
// declared "running" lifecycle probes.
type StartTask struct {
	Task
	Registries map[string]*entities.Registry
	// Refresh forces a pull even if the image is already present
	// locally.
	Refresh bool
	// Reuse, when true and an existing (stopped) container of the
	// same name is present, skips removing and recreating it.
	Reuse bool
}

// NewStartTask builds a StartTask.
func NewStartTask(t Task, registries map[string]*entities.Registry, refresh, reuse bool) StartTask {
	return StartTask{Task: t, Registries: registries, Refresh: refresh, Reuse: reuse}
}

// Run executes the task, reporting "up" if nothing needed to change,
// "started" on a successful cold start, or returning an
// OrchestrationError (with the container's logs attached, when
// available) if the container never came up.
func (s StartTask) Run(ctx context.Context) (err error) {
	runID, start := s.begin("start")
	defer func() { s.finish("start", runID, start, err != nil, err) }()

	s.Sink.Reset()

	started, err := s.createAndStart(ctx)
	if err != nil {
		s.Sink.Commit("failed to start container!")
		return err
	}

	switch started {
	case startResultAlreadyUp:
		s.Sink.Commit("up" + humanizeAge(s.Container.Status().StartedAt))
	case startResultStarted:
		s.Sink.Commit("started")
	case startResultFailed:
		s.Sink.Commit("service did not start!")
		logs, _ := s.Engine.Logs(ctx, s.Container.Status().ID)
		err = anchorerrors.NewOrchestrationError("service %s failed to start", s.Container.Name).WithLog(string(logs))
		return err
	}
	return nil
}

type startResult int

const (
	startResultStarted startResult = iota
	startResultAlreadyUp
	startResultFailed
)

func (s StartTask) createAndStart(ctx context.Context) (startResult, error) {
	s.Sink.Pending("checking service...")
	status, err := s.Engine.InspectContainer(ctx, s.Container.Name)
	if err != nil {
		return 0, err
	}
	s.Container.SetStatus(status)

	if status.Present && status.Running {
		s.Sink.Commit(fmt.Sprintf("%-25s", s.Container.ShortImageAndID()))
		return startResultAlreadyUp, nil
	}

	if !s.Reuse || !status.Present {
		if err := NewRemoveTask(s.Task, false).Run(ctx); err != nil {
			return 0, err
		}

		images, err := s.Engine.ImageIDs(ctx)
		if err != nil {
			return 0, err
		}
		_, haveImage := images[s.Container.Image]
		if s.Refresh || !haveImage {
			if err := NewPullTask(s.Task, s.Registries, false).Run(ctx); err != nil {
				return 0, err
			}
		}

		s.Sink.Pending(fmt.Sprintf("creating container from %s...", s.Container.ImageTag()))
		if _, err := s.Engine.CreateContainer(ctx, s.Container); err != nil {
			return 0, err
		}
	}

	s.Sink.Pending("waiting for container...")
	if !s.waitForStatus(ctx, func(st entities.Status) bool { return st.Present }, 10) {
		return 0, anchorerrors.NewOrchestrationError("container status could not be obtained after creation for %s", s.Container.Name)
	}
	s.Sink.Commit(fmt.Sprintf("%-25s", s.Container.ShortImageAndID()))

	s.Sink.Pending(fmt.Sprintf("starting container %s...", s.Container.ShortID()))
	if err := s.Engine.StartContainer(ctx, s.Container.Status().ID); err != nil {
		return 0, err
	}

	s.Sink.Pending("waiting for initialization...")
	if !s.waitForStatus(ctx, func(st entities.Status) bool { return st.Present && st.Running }, 10) {
		return 0, anchorerrors.NewOrchestrationError("container status could not be obtained after start for %s", s.Container.Name)
	}

	s.Sink.Pending("waiting for service...")
	ok, err := s.checkForState(ctx, s.Container.Status().ID, lifecycle.StateRunning, func(st entities.Status) bool {
		return st.Present && st.Running
	})
	if err != nil {
		return 0, err
	}
	if !ok {
		return startResultFailed, nil
	}
	return startResultStarted, nil
}
