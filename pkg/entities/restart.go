package entities

import (
	"strconv"
	"strings"

	"github.com/cuemby/anchorage/pkg/errors"
)

// validRestartPolicies lists the restart policy names the engine
// accepts.
var validRestartPolicies = map[string]bool{
	"no":         true,
	"always":     true,
	"on-failure": true,
}

// RestartPolicy is the engine-ready restart policy for a container.
type RestartPolicy struct {
	Name              string
	MaximumRetryCount int
}

// defaultRestartPolicy is used when no restart spec is configured at all.
func defaultRestartPolicy() RestartPolicy {
	return RestartPolicy{Name: "no", MaximumRetryCount: 0}
}

// ParseRestartPolicy normalizes a container's raw `restart` config value:
// a string "name[:retries]", or a map with "name" and "retries". An
// absent/empty spec falls back to {"no", 0}. Any other unparsable value,
// or a name outside {"no","always","on-failure"}, is a fatal
// configuration error; a malformed non-empty spec never silently falls
// back to the default.
func ParseRestartPolicy(subject string, raw interface{}) (RestartPolicy, error) {
	switch v := raw.(type) {
	case nil:
		return defaultRestartPolicy(), nil

	case string:
		if v == "" {
			return defaultRestartPolicy(), nil
		}
		parts := strings.SplitN(v, ":", 2)
		name := parts[0]
		retries := 0
		if len(parts) == 2 {
			n, err := strconv.Atoi(parts[1])
			if err != nil {
				return RestartPolicy{}, errors.WrapConfigurationError(subject, err, "invalid restart policy retry count in %q", v)
			}
			retries = n
		}
		return makeRestartPolicy(subject, name, retries)

	case map[string]interface{}:
		if len(v) == 0 {
			return defaultRestartPolicy(), nil
		}
		name, _ := v["name"].(string)
		retries := 0
		if r, ok := v["retries"]; ok {
			n, err := intFrom(r)
			if err != nil {
				return RestartPolicy{}, errors.WrapConfigurationError(subject, err, "invalid restart policy retries %v", r)
			}
			retries = n
		}
		return makeRestartPolicy(subject, name, retries)

	default:
		return RestartPolicy{}, errors.NewConfigurationError(subject, "invalid restart policy format: %v", raw)
	}
}

func makeRestartPolicy(subject, name string, retries int) (RestartPolicy, error) {
	if name == "" {
		name = "no"
	}
	if !validRestartPolicies[name] {
		return RestartPolicy{}, errors.NewConfigurationError(subject, "invalid restart policy %q; choose one of no, always, on-failure", name)
	}
	return RestartPolicy{Name: name, MaximumRetryCount: retries}, nil
}

func intFrom(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, strconv.ErrSyntax
	}
}
