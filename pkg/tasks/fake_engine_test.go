package tasks

import (
	"context"
	"time"

	"github.com/docker/docker/api/types"

	"github.com/cuemby/anchorage/pkg/entities"
	"github.com/cuemby/anchorage/pkg/metrics"
)

// fakeEngine is a minimal, test-only implementation of Engine with
// scriptable behavior, standing in for *ship.Client so these tests
// never touch a real Docker engine.
type fakeEngine struct {
	inspect func(ctx context.Context, id string) (entities.Status, error)

	createCalls int
	createErr   error

	startCalls int
	startErr   error

	stopCalls int
	stopErr   error

	removeCalls int
	removeErr   error

	logs []byte

	execExitCode int
	execErr      error

	imageIDs    map[string]string
	imageIDsErr error

	pullCalls int
	pullErr   error

	loginCalls int
	loginErr   error
}

func (f *fakeEngine) InspectContainer(ctx context.Context, id string) (entities.Status, error) {
	if f.inspect != nil {
		return f.inspect(ctx, id)
	}
	return entities.Status{}, nil
}

func (f *fakeEngine) CreateContainer(ctx context.Context, instance *entities.Container) (string, error) {
	f.createCalls++
	return "created-id", f.createErr
}

func (f *fakeEngine) StartContainer(ctx context.Context, id string) error {
	f.startCalls++
	return f.startErr
}

func (f *fakeEngine) StopContainer(ctx context.Context, id string, timeout time.Duration) error {
	f.stopCalls++
	return f.stopErr
}

func (f *fakeEngine) RemoveContainer(ctx context.Context, id string, removeVolumes bool) error {
	f.removeCalls++
	return f.removeErr
}

func (f *fakeEngine) Logs(ctx context.Context, id string) ([]byte, error) {
	return f.logs, nil
}

func (f *fakeEngine) ExecInContainer(ctx context.Context, id string, command []string) (int, error) {
	return f.execExitCode, f.execErr
}

func (f *fakeEngine) ImageIDs(ctx context.Context) (map[string]string, error) {
	return f.imageIDs, f.imageIDsErr
}

func (f *fakeEngine) Pull(ctx context.Context, image, tag string, insecure bool, auth *types.AuthConfig, recorder metrics.Recorder, containerName string) error {
	f.pullCalls++
	return f.pullErr
}

func (f *fakeEngine) Login(ctx context.Context, registryAddr, username, password, email string) error {
	f.loginCalls++
	return f.loginErr
}

func newTestContainer(t testingTB) *entities.Container {
	t.Helper()
	ship := &entities.Ship{Name: "ship1", IP: "10.0.0.5"}
	svc := entities.NewService("api", "myapp/api:v2", false)
	c, err := entities.NewContainer("api-1", ship, svc, entities.ContainerConfig{}, "prod")
	if err != nil {
		t.Fatalf("newTestContainer: %v", err)
	}
	return c
}

// testingTB is the subset of *testing.T this helper needs, so it can
// be called from any test file without importing "testing" twice.
type testingTB interface {
	Helper()
	Fatalf(format string, args ...interface{})
}
