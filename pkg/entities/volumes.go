package entities

import (
	"github.com/cuemby/anchorage/pkg/errors"
)

// VolumeBinding is one host-path → container-path bind mount.
type VolumeBinding struct {
	Bind     string
	ReadOnly bool
}

// ParseVolumes normalizes a container's raw `volumes` config map into
// host-path → VolumeBinding. A value is either a plain string (the
// container target, read-write) or a map with "target" and optional
// "mode" ("rw"|"ro"). When schemaVersion == 1, the legacy schema is in
// effect and the mapping is inverted: the host path is read from the
// spec's target and stored under the *value* string/map's key instead
// of the map key.
func ParseVolumes(subject string, raw map[string]interface{}, schemaVersion int) (map[string]VolumeBinding, error) {
	result := make(map[string]VolumeBinding, len(raw))
	for src, spec := range raw {
		binding, bindTarget, err := parseVolumeSpec(subject, src, spec)
		if err != nil {
			return nil, err
		}
		if schemaVersion == 1 {
			result[bindTarget] = VolumeBinding{Bind: src, ReadOnly: false}
			continue
		}
		result[src] = binding
	}
	return result, nil
}

func parseVolumeSpec(subject, src string, spec interface{}) (VolumeBinding, string, error) {
	switch v := spec.(type) {
	case string:
		return VolumeBinding{Bind: v, ReadOnly: false}, v, nil
	case map[string]interface{}:
		target, ok := v["target"].(string)
		if !ok || target == "" {
			return VolumeBinding{}, "", errors.NewConfigurationError(subject, "invalid volume specification for %s: missing target", src)
		}
		mode, _ := v["mode"].(string)
		if mode == "" {
			mode = "rw"
		}
		if mode != "rw" && mode != "ro" {
			return VolumeBinding{}, "", errors.NewConfigurationError(subject, "invalid volume access mode %q for %s; choose rw or ro", mode, src)
		}
		return VolumeBinding{Bind: target, ReadOnly: mode == "ro"}, target, nil
	default:
		return VolumeBinding{}, "", errors.NewConfigurationError(subject, "invalid volume specification for %s: %v", src, spec)
	}
}
