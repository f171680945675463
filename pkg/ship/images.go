package ship

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/pkg/jsonmessage"

	"github.com/cuemby/anchorage/pkg/metrics"
)

// untaggedPlaceholder is the sentinel Docker reports for a dangling
// image with no repository tag.
const untaggedPlaceholder = "<none>:<none>"

// ImageRecord is one entry of a Ship's local image catalog.
type ImageRecord struct {
	ID       string
	RepoTags []string
	Size     int64
}

// Images lists locally present images, optionally restricted to those
// matching repo (a reference filter, e.g. "myapp/api").
func (c *Client) Images(ctx context.Context, repo string) ([]ImageRecord, error) {
	opts := types.ImageListOptions{}
	if repo != "" {
		args := filters.NewArgs()
		args.Add("reference", repo)
		opts.Filters = args
	}

	images, err := c.engine.ImageList(ctx, opts)
	if err != nil {
		return nil, c.engineErr(err, "listing images")
	}

	out := make([]ImageRecord, 0, len(images))
	for _, img := range images {
		out = append(out, ImageRecord{ID: img.ID, RepoTags: img.RepoTags, Size: img.Size})
	}
	return out, nil
}

// ImageIDs returns a "repo:tag" → image ID catalog for every tag this
// Ship actually has locally. An image is skipped only when its tag list
// is *exactly* ["<none>:<none>"] — a dangling, untagged image. An image
// that happens to carry other real tags alongside one that renders as
// that placeholder string is not discarded; each of its real tags is
// still a valid lookup key.
func (c *Client) ImageIDs(ctx context.Context) (map[string]string, error) {
	images, err := c.Images(ctx, "")
	if err != nil {
		return nil, err
	}
	return buildImageCatalog(images), nil
}

func buildImageCatalog(images []ImageRecord) map[string]string {
	catalog := make(map[string]string)
	for _, img := range images {
		if len(img.RepoTags) == 1 && img.RepoTags[0] == untaggedPlaceholder {
			continue
		}
		for _, tag := range img.RepoTags {
			catalog[tag] = img.ID
		}
	}
	return catalog
}

// Pull pulls image:tag, reporting progress through recorder as it goes
// (labeled by containerName, since progress is tracked per container
// instance rather than per image). recorder may be metrics.NoopRecorder
// when the caller does not want progress reported.
func (c *Client) Pull(ctx context.Context, image, tag string, insecure bool, auth *types.AuthConfig, recorder metrics.Recorder, containerName string) error {
	ref := image
	if tag != "" {
		ref = image + ":" + tag
	}

	opts := types.ImagePullOptions{}
	if auth != nil {
		encoded, err := encodeAuth(*auth)
		if err != nil {
			return fmt.Errorf("encoding registry auth: %w", err)
		}
		opts.RegistryAuth = encoded
	}
	if insecure {
		opts.PrivilegeFunc = func() (string, error) { return "", nil }
	}

	stream, err := c.engine.ImagePull(ctx, ref, opts)
	if err != nil {
		return c.engineErr(err, "pulling %s", ref)
	}
	defer stream.Close()

	defer recorder.PullFinished(containerName)

	// perLayer tracks each layer's own download percentage by its
	// stream ID; the reported progress is the running average across
	// every layer seen so far, matching how a multi-layer pull's
	// overall completion is judged.
	perLayer := map[string]float64{}

	decoder := json.NewDecoder(bufio.NewReader(stream))
	for {
		var msg jsonmessage.JSONMessage
		if err := decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("reading pull progress for %s: %w", ref, err)
		}
		if msg.Error != nil {
			return fmt.Errorf("pulling %s: %s", ref, msg.Error.Message)
		}

		if pct, ok := updatePullProgress(perLayer, msg); ok {
			recorder.PullProgress(containerName, pct)
		}
	}
	return nil
}

// updatePullProgress folds one stream event into the per-layer progress
// map and returns the new overall percentage. Malformed or layer-less
// events (plain status lines, the final digest message) don't move the
// average; the pull itself still continues.
func updatePullProgress(perLayer map[string]float64, msg jsonmessage.JSONMessage) (float64, bool) {
	switch {
	case msg.Status == "Download complete" && msg.ID != "":
		perLayer[msg.ID] = 100
	case msg.Progress != nil && msg.Progress.Total > 0 && msg.ID != "":
		perLayer[msg.ID] = float64(msg.Progress.Current) / float64(msg.Progress.Total) * 100
	default:
		return 0, false
	}

	var total float64
	for _, pct := range perLayer {
		total += pct
	}
	return total / float64(len(perLayer)), true
}

// Login authenticates against a registry so subsequent pulls can use the
// resulting credentials.
func (c *Client) Login(ctx context.Context, registryAddr, username, password, email string) error {
	_, err := c.engine.RegistryLogin(ctx, types.AuthConfig{
		ServerAddress: registryAddr,
		Username:      username,
		Password:      password,
		Email:         email,
	})
	if err != nil {
		return c.engineErr(err, "logging in to %s", registryAddr)
	}
	return nil
}

func encodeAuth(auth types.AuthConfig) (string, error) {
	buf, err := json.Marshal(auth)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
