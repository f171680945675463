package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShip() *Ship {
	return &Ship{Name: "ship1", IP: "10.0.0.9"}
}

func TestNewContainer_ImageDefaultsToService(t *testing.T) {
	svc := NewService("api", "myapp/api:v2", false)
	c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{}, "prod")
	require.NoError(t, err)
	assert.Equal(t, "myapp/api:v2", c.Image)
}

func TestNewContainer_PerInstanceImageOverride(t *testing.T) {
	svc := NewService("api", "myapp/api:v2", false)
	c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{Image: "myapp/api:v3"}, "prod")
	require.NoError(t, err)
	assert.Equal(t, "myapp/api:v3", c.Image)
}

func TestNewContainer_EnvOverlayAndSyntheticVars(t *testing.T) {
	svc := NewService("api", "myapp/api:v2", false)
	svc.Env["BASE"] = "from-service"
	c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{
		Env: map[string]interface{}{
			"BASE":    "from-instance",
			"EXTRA":   "x",
			"NESTED":  []interface{}{"a", "b", []interface{}{"c", "d"}},
		},
	}, "prod")
	require.NoError(t, err)

	assert.Equal(t, "from-instance", c.Env["BASE"])
	assert.Equal(t, "x", c.Env["EXTRA"])
	assert.Equal(t, "a b c d", c.Env["NESTED"])
	assert.Equal(t, "prod", c.Env["MAESTRO_ENVIRONMENT_NAME"])
	assert.Equal(t, "api", c.Env["SERVICE_NAME"])
	assert.Equal(t, "api-1", c.Env["CONTAINER_NAME"])
	assert.Equal(t, "10.0.0.9", c.Env["CONTAINER_HOST_ADDRESS"])
	assert.Equal(t, "myapp/api:v2", c.Env["DOCKER_IMAGE"])
	assert.Equal(t, "v2", c.Env["DOCKER_TAG"])
}

func TestNewContainer_VolumeConflictIsFatal(t *testing.T) {
	svc := NewService("api", "myapp/api", false)
	_, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{
		Volumes: map[string]interface{}{
			"/host/data": "/var/lib/data",
		},
		ContainerVolumes: []string{"/var/lib/data"},
	}, "prod")
	assert.Error(t, err)
}

func TestNewContainer_StopTimeoutDefault(t *testing.T) {
	svc := NewService("api", "myapp/api", false)
	c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{}, "prod")
	require.NoError(t, err)
	assert.Equal(t, 10, c.StopTimeout)
}

func TestContainer_ImageRepositoryAndTag(t *testing.T) {
	tests := []struct {
		name     string
		image    string
		wantRepo string
		wantTag  string
	}{
		{name: "no tag", image: "myapp/api", wantRepo: "myapp/api", wantTag: "latest"},
		{name: "tagged", image: "myapp/api:v2", wantRepo: "myapp/api", wantTag: "v2"},
		{name: "registry with port, no tag", image: "registry.local:5000/myapp/api", wantRepo: "registry.local:5000/myapp/api", wantTag: "latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService("api", tt.image, false)
			c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{}, "prod")
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepo, c.ImageRepository())
			assert.Equal(t, tt.wantTag, c.ImageTag())
		})
	}
}

func TestContainer_ShortID(t *testing.T) {
	svc := NewService("api", "myapp/api", false)
	c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{}, "prod")
	require.NoError(t, err)

	assert.Equal(t, "-", c.ShortID())

	c.SetStatus(Status{ID: "abcdef0123456789"})
	assert.Equal(t, "abcdef0", c.ShortID())
}

func TestContainer_ExternalPort(t *testing.T) {
	svc := NewService("api", "myapp/api", false)
	c, err := NewContainer("api-1", newTestShip(), svc, ContainerConfig{
		Ports: map[string]interface{}{"http": 8080},
	}, "prod")
	require.NoError(t, err)

	number, proto, ok := c.ExternalPort("http")
	assert.True(t, ok)
	assert.Equal(t, "8080", number)
	assert.Equal(t, "tcp", proto)

	_, _, ok = c.ExternalPort("missing")
	assert.False(t, ok)
}
