package tasks

import (
	"context"
	"fmt"
)

// RemoveTask removes a container from its Ship if it exists. A running
// container is never force-removed; the caller must stop it first.
type RemoveTask struct {
	Task
	// Standalone controls whether an "absent" or "removed" result is
	// reported: a standalone invocation (the caller asked to remove
	// this container directly) commits a result line; a non-standalone
	// one (invoked internally, e.g. by StartTask clearing a stale
	// instance) stays silent on those. A running container is reported
	// as "skipped" in both modes.
	Standalone bool
}

// NewRemoveTask builds a RemoveTask.
func NewRemoveTask(t Task, standalone bool) RemoveTask {
	return RemoveTask{Task: t, Standalone: standalone}
}

// Run executes the task.
func (r RemoveTask) Run(ctx context.Context) (err error) {
	runID, start := r.begin("remove")
	defer func() { r.finish("remove", runID, start, err != nil, err) }()

	r.Sink.Reset()

	status, err := r.Engine.InspectContainer(ctx, r.Container.Name)
	if err != nil {
		return err
	}
	r.Container.SetStatus(status)

	if !status.Present {
		if r.Standalone {
			r.Sink.Commit(fmt.Sprintf("%-25s", "-"))
			r.Sink.Commit("absent")
		}
		return nil
	}

	if status.Running {
		r.Sink.Commit(fmt.Sprintf("%-25s", r.Container.ShortImageAndID()))
		r.Sink.Commit("skipped")
		return nil
	}

	r.Sink.Pending(fmt.Sprintf("removing container %s...", r.Container.ShortID()))
	if err := r.Engine.RemoveContainer(ctx, status.ID, true); err != nil {
		return err
	}

	if r.Standalone {
		r.Sink.Commit(fmt.Sprintf("%-25s", r.Container.ShortID()))
		r.Sink.Commit("removed")
	}
	return nil
}
