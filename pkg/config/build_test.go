package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadAndBuild(t *testing.T, doc string) (*File, error) {
	t.Helper()
	file, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	graph, buildErr := Build(file)
	_ = graph
	return file, buildErr
}

func TestBuild_WiresShipsServicesAndInstances(t *testing.T) {
	file, err := Load(strings.NewReader(`
name: staging
ships:
  ship1: { ip: 10.0.0.1 }
registries:
  myrepo: { registry: "https://myrepo.example.com", username: bob, password: secret }
services:
  db:
    image: example/db
    instances:
      db-1:
        ship: ship1
  web:
    image: example/web
    requires: [db]
    instances:
      web-1:
        ship: ship1
        ports: { http: "80" }
        links: { db-1: db }
`))
	require.NoError(t, err)

	graph, err := Build(file)
	require.NoError(t, err)

	require.Contains(t, graph.Ships, "ship1")
	assert.Equal(t, "10.0.0.1", graph.Ships["ship1"].IP)

	require.Contains(t, graph.Registries, "myrepo")
	assert.Equal(t, "https://myrepo.example.com", graph.Registries["myrepo"].URL)

	require.Contains(t, graph.Services, "web")
	require.Contains(t, graph.Services, "db")

	web := graph.Services["web"]
	db := graph.Services["db"]
	require.Len(t, web.Dependencies(), 1)
	assert.Equal(t, db, web.Dependencies()[0])
	require.Len(t, db.NeededFor(), 1)
	assert.Equal(t, web, db.NeededFor()[0])

	containers := web.Containers()
	require.Len(t, containers, 1)
	assert.Equal(t, "web-1", containers[0].Name)
	assert.Equal(t, "example/web", containers[0].Image)
	assert.Equal(t, "staging", containers[0].Env["MAESTRO_ENVIRONMENT_NAME"])
}

func TestBuild_UnknownShipIsConfigurationError(t *testing.T) {
	_, err := loadAndBuild(t, `
services:
  web:
    image: example/web
    instances:
      web-1:
        ship: doesnotexist
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doesnotexist")
}

func TestBuild_UnknownRequiresIsConfigurationError(t *testing.T) {
	_, err := loadAndBuild(t, `
ships:
  ship1: { ip: 10.0.0.1 }
services:
  web:
    image: example/web
    requires: [ghost]
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestBuild_DuplicateInstanceNameAcrossServicesFailsValidate(t *testing.T) {
	_, err := loadAndBuild(t, `
ships:
  ship1: { ip: 10.0.0.1 }
services:
  a:
    image: example/a
    instances:
      shared: { ship: ship1 }
  b:
    image: example/b
    instances:
      shared: { ship: ship1 }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shared")
}

func TestBuild_RequiresCycleFails(t *testing.T) {
	_, err := loadAndBuild(t, `
ships:
  ship1: { ip: 10.0.0.1 }
services:
  a:
    image: example/a
    requires: [b]
  b:
    image: example/b
    requires: [a]
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_ServiceEnvFlattensListValues(t *testing.T) {
	file, err := Load(strings.NewReader(`
ships:
  ship1: { ip: 10.0.0.1 }
services:
  web:
    image: example/web
    env:
      JAVA_OPTS: ["-Xmx512m", "-Xms256m"]
`))
	require.NoError(t, err)

	graph, err := Build(file)
	require.NoError(t, err)
	assert.Equal(t, "-Xmx512m -Xms256m", graph.Services["web"].Env["JAVA_OPTS"])
}

func TestBuild_SSHTunnelDefaultsPort(t *testing.T) {
	file, err := Load(strings.NewReader(`
ships:
  ship1:
    ip: 10.0.0.1
    ssh_tunnel: { user: deploy, key: /home/deploy/.ssh/id_rsa }
`))
	require.NoError(t, err)

	graph, err := Build(file)
	require.NoError(t, err)
	require.NotNil(t, graph.Ships["ship1"].SSHTunnel)
	assert.Equal(t, 22, graph.Ships["ship1"].SSHTunnel.Port)
	assert.Equal(t, "deploy", graph.Ships["ship1"].SSHTunnel.User)
}

func TestBuild_SSHTunnelMissingKeyIsConfigurationError(t *testing.T) {
	_, err := loadAndBuild(t, `
ships:
  ship1:
    ip: 10.0.0.1
    ssh_tunnel: { user: deploy }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user and key")
}

func TestBuild_CollectsEveryError(t *testing.T) {
	_, err := loadAndBuild(t, `
ships:
  ship1: { ip: 10.0.0.1 }
services:
  web:
    image: example/web
    requires: [ghost]
    instances:
      web-1: { ship: nowhere }
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
	assert.Contains(t, err.Error(), "nowhere")
}

func TestBuild_LegacySchemaInvertsVolumeMapping(t *testing.T) {
	file, err := Load(strings.NewReader(`
schema: { schema: 1 }
ships:
  ship1: { ip: 10.0.0.1 }
services:
  db:
    image: example/db
    instances:
      db-1:
        ship: ship1
        volumes:
          /var/lib/data: /host/data
`))
	require.NoError(t, err)

	graph, err := Build(file)
	require.NoError(t, err)

	c := graph.Services["db"].Containers()[0]
	binding, ok := c.Volumes["/host/data"]
	require.True(t, ok)
	assert.Equal(t, "/var/lib/data", binding.Bind)
}
