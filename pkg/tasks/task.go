// Package tasks implements the task engine: the seven operations that
// drive one Container through a lifecycle transition by talking to its
// Ship's engine client and, where declared, waiting on lifecycle
// probes. Every task is a short-lived value constructed fresh for one
// invocation; none retain state between runs.
package tasks

import (
	"context"
	"strconv"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cuemby/anchorage/pkg/entities"
	"github.com/cuemby/anchorage/pkg/lifecycle"
	"github.com/cuemby/anchorage/pkg/log"
	"github.com/cuemby/anchorage/pkg/metrics"
	"github.com/cuemby/anchorage/pkg/output"
)

// pollInterval is the delay between wait_for_status polls.
const pollInterval = 500 * time.Millisecond

// Engine is the narrow view of a Ship's engine client every task
// needs. *ship.Client satisfies it; tests supply a fake.
type Engine interface {
	InspectContainer(ctx context.Context, containerID string) (entities.Status, error)
	CreateContainer(ctx context.Context, instance *entities.Container) (string, error)
	StartContainer(ctx context.Context, containerID string) error
	StopContainer(ctx context.Context, containerID string, timeout time.Duration) error
	RemoveContainer(ctx context.Context, containerID string, removeVolumes bool) error
	Logs(ctx context.Context, containerID string) ([]byte, error)
	ExecInContainer(ctx context.Context, containerID string, command []string) (int, error)
	ImageIDs(ctx context.Context) (map[string]string, error)
	Pull(ctx context.Context, image, tag string, insecure bool, auth *types.AuthConfig, recorder metrics.Recorder, containerName string) error
	Login(ctx context.Context, registryAddr, username, password, email string) error
}

// Task is the base all seven task types share: the container they
// operate on, the engine used to reach it, the sink progress is
// reported to, and the recorder outcomes are reported to.
type Task struct {
	Container *entities.Container
	Engine    Engine
	Sink      output.Sink
	Recorder  metrics.Recorder
}

// New builds a Task base. sink may be nil (defaults to output.NoopSink)
// and recorder may be nil (defaults to metrics.NoopRecorder).
func New(container *entities.Container, engine Engine, sink output.Sink, recorder metrics.Recorder) Task {
	if sink == nil {
		sink = output.NoopSink{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return Task{Container: container, Engine: engine, Sink: sink, Recorder: recorder}
}

// record reports one task's outcome to the recorder, labeled by kind
// ("status", "start", "stop", "restart", "pull", "login", "remove")
// and result ("success" or "failure").
func (t Task) record(kind string, timer *metrics.Timer, failed bool) {
	result := "success"
	if failed {
		result = "failure"
	}
	t.Recorder.TaskCompleted(kind, result, timer.Duration())
}

// begin marks the start of one task run: it generates a run ID that
// ties the start and outcome log lines of this invocation together (useful
// once many containers are being driven concurrently) and logs the
// task's start against a container-scoped logger.
func (t Task) begin(kind string) (runID string, timer *metrics.Timer) {
	timer = metrics.NewTimer()
	runID = uuid.NewString()
	entry := log.ForTask(t.Container.Name, kind, runID)
	entry.Info().Msg("task started")
	return runID, timer
}

// finish reports a task run's outcome to both the metrics recorder and
// the log, using the run ID begin returned so the two lines correlate.
func (t Task) finish(kind, runID string, timer *metrics.Timer, failed bool, cause error) {
	t.record(kind, timer, failed)
	entry := log.ForTask(t.Container.Name, kind, runID)
	if failed {
		ev := entry.Error()
		if cause != nil {
			ev = ev.Err(cause)
		}
		ev.Msg("task failed")
		return
	}
	entry.Info().Msg("task completed")
}

// waitForStatus polls InspectContainer every 500ms, up to retries
// times (at least once), returning true on the first poll where cond
// holds. A "not found" status (Present: false) is a valid input to cond.
func (t Task) waitForStatus(ctx context.Context, cond func(entities.Status) bool, retries int) bool {
	for attempt := 1; ; attempt++ {
		status, err := t.Engine.InspectContainer(ctx, t.Container.Name)
		if err == nil {
			t.Container.SetStatus(status)
			if cond(status) {
				return true
			}
		}
		if attempt >= retries {
			return false
		}
		select {
		case <-time.After(pollInterval):
		case <-ctx.Done():
			return false
		}
	}
}

// checkForState waits for the container to reach state by running any
// declared lifecycle probes for it, while continuing to poll engine
// status in the background; if status polling says cond is no longer
// satisfiable, it aborts early. With no probes declared for state, it
// degrades to a plain waitForStatus(cond, 10).
func (t Task) checkForState(ctx context.Context, containerID string, state lifecycle.State, cond func(entities.Status) bool) (bool, error) {
	if !t.Container.HasLifecycleChecks(state) {
		return t.waitForStatus(ctx, cond, 10), nil
	}

	execer, _ := t.Engine.(lifecycle.Execer)
	probes, err := t.Container.BuildLifecycleProbes(execer, containerID, state)
	if err != nil {
		return false, err
	}

	group, gctx := errgroup.WithContext(ctx)
	results := make([]bool, len(probes))
	for i, p := range probes {
		i, p := i, p
		group.Go(func() error {
			results[i] = p.Test(gctx)
			return nil
		})
	}
	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			for _, ok := range results {
				if !ok {
					return false, nil
				}
			}
			return true, nil
		case <-ticker.C:
			if !t.waitForStatus(ctx, cond, 1) {
				return false, nil
			}
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// humanizeAge reports how long ago t was, for display next to a
// container's running/down status.
func humanizeAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return " (just now)"
	case d < time.Hour:
		return " (" + d.Round(time.Minute).String() + " ago)"
	case d < 24*time.Hour:
		return " (" + d.Round(time.Hour).String() + " ago)"
	default:
		days := int(d.Hours() / 24)
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		return " (" + strconv.Itoa(days) + " " + unit + " ago)"
	}
}
