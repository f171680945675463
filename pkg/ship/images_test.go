package ship

import (
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/stretchr/testify/assert"
)

func TestBuildImageCatalog_SkipsDanglingImage(t *testing.T) {
	images := []ImageRecord{
		{ID: "sha256:aaa", RepoTags: []string{untaggedPlaceholder}},
		{ID: "sha256:bbb", RepoTags: []string{"myapp/api:v2", "myapp/api:latest"}},
	}

	catalog := buildImageCatalog(images)

	assert.Len(t, catalog, 2)
	assert.Equal(t, "sha256:bbb", catalog["myapp/api:v2"])
	assert.Equal(t, "sha256:bbb", catalog["myapp/api:latest"])
	assert.NotContains(t, catalog, untaggedPlaceholder)
}

func TestBuildImageCatalog_KeepsRealTagEvenAlongsidePlaceholderSibling(t *testing.T) {
	// A multi-tag image is never dropped wholesale just because one of
	// its repo tags happens to render as the dangling placeholder; only
	// an image whose *entire* tag list is that one placeholder entry is
	// untagged.
	images := []ImageRecord{
		{ID: "sha256:ccc", RepoTags: []string{"myapp/api:v3", untaggedPlaceholder}},
	}

	catalog := buildImageCatalog(images)

	assert.Equal(t, "sha256:ccc", catalog["myapp/api:v3"])
}

func TestEncodeAuth_RoundTrips(t *testing.T) {
	encoded, err := encodeAuth(types.AuthConfig{
		Username: "alice",
		Password: "hunter2",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, encoded)
}

func TestUpdatePullProgress_AveragesAcrossLayers(t *testing.T) {
	perLayer := map[string]float64{}

	pct, ok := updatePullProgress(perLayer, jsonmessage.JSONMessage{
		ID:       "layerA",
		Progress: &jsonmessage.JSONProgress{Current: 50, Total: 100},
	})
	assert.True(t, ok)
	assert.InDelta(t, 50.0, pct, 0.01)

	pct, ok = updatePullProgress(perLayer, jsonmessage.JSONMessage{
		ID:     "layerB",
		Status: "Download complete",
	})
	assert.True(t, ok)
	assert.InDelta(t, 75.0, pct, 0.01)

	pct, ok = updatePullProgress(perLayer, jsonmessage.JSONMessage{
		ID:       "layerA",
		Progress: &jsonmessage.JSONProgress{Current: 100, Total: 100},
	})
	assert.True(t, ok)
	assert.InDelta(t, 100.0, pct, 0.01)
}

func TestUpdatePullProgress_IgnoresLayerlessAndMalformedEvents(t *testing.T) {
	perLayer := map[string]float64{"layerA": 40}

	_, ok := updatePullProgress(perLayer, jsonmessage.JSONMessage{Status: "Pulling from myapp/api"})
	assert.False(t, ok)

	_, ok = updatePullProgress(perLayer, jsonmessage.JSONMessage{
		ID:       "layerB",
		Progress: &jsonmessage.JSONProgress{Current: 10, Total: 0},
	})
	assert.False(t, ok)

	assert.Len(t, perLayer, 1)
}
