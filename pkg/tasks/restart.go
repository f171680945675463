package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/cuemby/anchorage/pkg/entities"
)

// RestartTask composes PullTask (optionally), StopTask, and StartTask
// with configurable settle delays, and can skip the whole sequence
// when the running container's image hasn't actually changed.
type RestartTask struct {
	Task
	Registries map[string]*entities.Registry

	Refresh        bool
	StepDelay      time.Duration
	StopStartDelay time.Duration
	Reuse          bool
	OnlyIfChanged  bool
}

// NewRestartTask builds a RestartTask.
func NewRestartTask(t Task, registries map[string]*entities.Registry, refresh bool, stepDelay, stopStartDelay time.Duration, reuse, onlyIfChanged bool) RestartTask {
	return RestartTask{
		Task:           t,
		Registries:     registries,
		Refresh:        refresh,
		StepDelay:      stepDelay,
		StopStartDelay: stopStartDelay,
		Reuse:          reuse,
		OnlyIfChanged:  onlyIfChanged,
	}
}

// Run executes the task.
func (r RestartTask) Run(ctx context.Context) (err error) {
	runID, start := r.begin("restart")
	defer func() { r.finish("restart", runID, start, err != nil, err) }()

	r.Sink.Reset()

	if r.Refresh {
		if err := NewPullTask(r.Task, r.Registries, false).Run(ctx); err != nil {
			return err
		}
	}

	if r.OnlyIfChanged {
		status, err := r.Engine.InspectContainer(ctx, r.Container.Name)
		if err != nil {
			return err
		}
		r.Container.SetStatus(status)

		if status.Present && status.Running {
			r.Sink.Pending("checking image...")
			images, err := r.Engine.ImageIDs(ctx)
			if err != nil {
				return err
			}
			if images[r.Container.Image] == status.Image {
				r.Sink.Commit(fmt.Sprintf("%-25s", r.Container.ShortImageAndID()))
				r.Sink.Commit("up to date")
				return nil
			}
		}
	}

	if r.StepDelay > 0 {
		r.Sink.Pending(fmt.Sprintf("waiting %s before restart...", r.StepDelay))
		if err := sleep(ctx, r.StepDelay); err != nil {
			return err
		}
	}

	NewStopTask(r.Task).Run(ctx)

	r.Sink.Reset()
	if r.StopStartDelay > 0 {
		r.Sink.Pending(fmt.Sprintf("waiting %s before starting...", r.StopStartDelay))
		if err := sleep(ctx, r.StopStartDelay); err != nil {
			return err
		}
	}

	return NewStartTask(r.Task, r.Registries, false, r.Reuse).Run(ctx)
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
