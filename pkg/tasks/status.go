package tasks

import (
	"context"
	"fmt"
)

// StatusTask inspects a container once and reports its current state:
// running with its age since start, down with its age
// since it last exited, or "host down" if the engine call itself
// failed.
type StatusTask struct {
	Task
}

// NewStatusTask builds a StatusTask.
func NewStatusTask(t Task) StatusTask { return StatusTask{t} }

// Run executes the task.
func (s StatusTask) Run(ctx context.Context) {
	runID, start := s.begin("status")
	s.Sink.Reset()
	s.Sink.Pending("checking...")

	status, err := s.Engine.InspectContainer(ctx, s.Container.Name)
	if err != nil {
		s.Recorder.ShipReachable(s.Container.Ship.Name, false)
		s.Sink.Commit(fmt.Sprintf("%-25s", "-"))
		s.Sink.Commit(fmt.Sprintf("%-10s", "host down"))
		s.finish("status", runID, start, true, err)
		return
	}
	s.Recorder.ShipReachable(s.Container.Ship.Name, true)
	s.Container.SetStatus(status)

	if status.Present && status.Running {
		s.Sink.Commit(fmt.Sprintf("%-25s", s.Container.ShortImageAndID()))
		s.Sink.Commit("running" + humanizeAge(status.StartedAt))
		s.finish("status", runID, start, false, nil)
		return
	}

	s.Sink.Commit(fmt.Sprintf("%-25s", s.Container.ShortImageAndID()))
	s.Sink.Commit("down" + humanizeAge(status.FinishedAt))
	s.finish("status", runID, start, false, nil)
}
