package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func link(a, b *Service) {
	a.AddDependency(b)
	b.AddDependent(a)
}

func TestService_TransitiveClosures(t *testing.T) {
	db := NewService("db", "postgres", false)
	cache := NewService("cache", "redis", false)
	api := NewService("api", "myapp/api", false)
	web := NewService("web", "myapp/web", false)

	// web -> api -> db, api -> cache
	link(api, db)
	link(api, cache)
	link(web, api)

	names := func(services []*Service) []string {
		out := make([]string, len(services))
		for i, s := range services {
			out[i] = s.Name
		}
		return out
	}

	assert.ElementsMatch(t, []string{"db", "cache"}, names(api.Requires()))
	assert.ElementsMatch(t, []string{"db", "cache", "api"}, names(web.Requires()))
	assert.ElementsMatch(t, []string{"api", "web"}, names(db.NeededFor()))
	assert.Empty(t, db.Requires())
}

func TestService_ContainersOrderedLexicographically(t *testing.T) {
	svc := NewService("api", "myapp/api", false)
	ship := &Ship{Name: "ship1", IP: "10.0.0.1"}

	for _, name := range []string{"c", "a", "b"} {
		_, err := NewContainer(name, ship, svc, ContainerConfig{}, "test")
		assert.NoError(t, err)
	}

	var got []string
	for _, c := range svc.Containers() {
		got = append(got, c.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestService_LinkVariables(t *testing.T) {
	svc := NewService("api", "myapp/api", false)
	ship := &Ship{Name: "ship1", IP: "10.0.0.5"}

	_, err := NewContainer("api-1", ship, svc, ContainerConfig{
		Ports: map[string]interface{}{"http": 8080},
	}, "test")
	assert.NoError(t, err)

	links := svc.LinkVariables(false)
	assert.Equal(t, "10.0.0.5", links["API_API_1_HOST"])
	assert.Equal(t, "8080", links["API_API_1_HTTP_PORT"])
	assert.Equal(t, "api-1", links["API_INSTANCES"])
	assert.NotContains(t, links, "API_API_1_HTTP_INTERNAL_PORT")
}
