package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
name: staging
ships:
  ship1:
    ip: 10.0.0.1
registries:
  myrepo:
    registry: https://myrepo.example.com
    username: bob
    password: secret
services:
  web:
    image: example/web
    env:
      LOG_LEVEL: debug
    instances:
      web-1:
        ship: ship1
        ports:
          http: "80"
`

func TestLoad_Basic(t *testing.T) {
	file, err := Load(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "staging", file.Name)
	require.Contains(t, file.Ships, "ship1")
	assert.Equal(t, "10.0.0.1", file.Ships["ship1"].IP)
	require.Contains(t, file.Registries, "myrepo")
	assert.Equal(t, "bob", file.Registries["myrepo"].Username)
	require.Contains(t, file.Services, "web")
	assert.Equal(t, "example/web", file.Services["web"].Image)
	require.Contains(t, file.Services["web"].Instances, "web-1")
}

func TestLoad_DefaultsEnvironmentName(t *testing.T) {
	file, err := Load(strings.NewReader(`
ships:
  ship1: { ip: 10.0.0.1 }
`))
	require.NoError(t, err)
	assert.Equal(t, "local", file.Name)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(strings.NewReader("ships: [this is not a map"))
	assert.Error(t, err)
}
