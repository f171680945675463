package tasks

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"

	"github.com/cuemby/anchorage/pkg/entities"
	anchorerrors "github.com/cuemby/anchorage/pkg/errors"
)

// PullTask downloads the image a container is based on, logging in
// first if the image's registry has configured credentials.
type PullTask struct {
	Task
	Registries map[string]*entities.Registry
	// Standalone controls whether a success result is committed to the
	// sink; a non-standalone invocation (from StartTask or RestartTask)
	// stays silent on success and only surfaces failures.
	Standalone bool
}

// NewPullTask builds a PullTask.
func NewPullTask(t Task, registries map[string]*entities.Registry, standalone bool) PullTask {
	return PullTask{Task: t, Registries: registries, Standalone: standalone}
}

// Run executes the task.
func (p PullTask) Run(ctx context.Context) (err error) {
	runID, start := p.begin("pull")
	defer func() { p.finish("pull", runID, start, err != nil, err) }()

	p.Sink.Reset()

	if err := NewLoginTask(p.Task, p.Registries).Run(ctx); err != nil {
		return err
	}

	p.Sink.Pending(fmt.Sprintf("pulling image %s...", p.Container.Image))

	registry := RegistryForContainer(p.Container, p.Registries)
	insecure := registry != nil && registry.Insecure()

	var auth *types.AuthConfig
	if registry != nil {
		auth = &types.AuthConfig{
			ServerAddress: registry.URL,
			Username:      registry.Username,
			Password:      registry.Password,
			Email:         registry.Email,
		}
	}

	err = p.Engine.Pull(ctx, p.Container.ImageRepository(), p.Container.ImageTag(), insecure, auth, p.Recorder, p.Container.Name)
	if err != nil {
		return anchorerrors.WrapOrchestrationError(err, "pull of image %s failed", p.Container.Image)
	}

	if p.Standalone {
		p.Sink.Commit(fmt.Sprintf("%-25s", ""))
		p.Sink.Commit("done")
	}
	return nil
}
