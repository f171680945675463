package tasks

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/cuemby/anchorage/pkg/entities"
	anchorerrors "github.com/cuemby/anchorage/pkg/errors"
)

// LoginTask authenticates with the registry hosting a container's
// image, if any registry credentials are configured for it, so a
// subsequent pull can use them.
type LoginTask struct {
	Task
	Registries map[string]*entities.Registry
}

// NewLoginTask builds a LoginTask.
func NewLoginTask(t Task, registries map[string]*entities.Registry) LoginTask {
	return LoginTask{Task: t, Registries: registries}
}

// Run executes the task. A container whose image carries no registry
// prefix, or whose registry has no configured credentials, is a no-op.
func (l LoginTask) Run(ctx context.Context) (err error) {
	registry := RegistryForContainer(l.Container, l.Registries)
	if registry == nil {
		return nil
	}

	runID, start := l.begin("login")
	defer func() { l.finish("login", runID, start, err != nil, err) }()

	l.Sink.Reset()
	l.Sink.Pending(fmt.Sprintf("logging in to %s...", registry.URL))

	if err := l.Engine.Login(ctx, registry.URL, registry.Username, registry.Password, registry.Email); err != nil {
		return anchorerrors.WrapOrchestrationError(err, "login to %s as %s failed", registry.URL, registry.Username)
	}
	return nil
}

// RegistryForContainer resolves the registry configuration that
// applies to container's image: the registry name is the text before
// the image's first "/", looked up directly in registries, falling
// back to a scan matching each registry's URL host (with or without
// port) against that name. An image with no "/" (no registry prefix,
// e.g. an official-library image) never has a registry.
func RegistryForContainer(container *entities.Container, registries map[string]*entities.Registry) *entities.Registry {
	repo := container.ImageRepository()
	idx := strings.Index(repo, "/")
	if idx <= 0 {
		return nil
	}
	name := repo[:idx]

	if r, ok := registries[name]; ok {
		return r
	}
	for _, r := range registries {
		u, err := url.Parse(r.URL)
		if err != nil {
			continue
		}
		host := u.Host
		if name == host {
			return r
		}
		if h, _, err := net.SplitHostPort(host); err == nil && name == h {
			return r
		}
	}
	return nil
}
