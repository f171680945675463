package entities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cuemby/anchorage/pkg/errors"
)

// ExternalBinding is the (bind-ip, "<num>/<proto>") pair a port is
// published on.
type ExternalBinding struct {
	BindIP string
	Spec   string
}

// PortSpec is one named port mapping on a Container: the port as exposed
// inside the container, and how it is published externally.
type PortSpec struct {
	Exposed  string
	External ExternalBinding
}

// portNumber returns the numeric part of a "<num>/<proto>" spec.
func portNumber(spec string) string {
	return strings.SplitN(spec, "/", 2)[0]
}

// ExposedNumber returns the exposed port number, without protocol.
func (p PortSpec) ExposedNumber() string { return portNumber(p.Exposed) }

// ExternalNumber returns the external port number, without protocol.
func (p PortSpec) ExternalNumber() string { return portNumber(p.External.Spec) }

// ExternalProto returns "tcp" or "udp" for the external binding.
func (p PortSpec) ExternalProto() string {
	parts := strings.SplitN(p.External.Spec, "/", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return "tcp"
}

// validateProto normalizes a raw port value ("8080", "8080/tcp", or the
// int 8080) into a canonical "<num>/<proto>" string, defaulting to tcp.
func validateProto(raw interface{}) (string, error) {
	var s string
	switch v := raw.(type) {
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case float64:
		s = strconv.Itoa(int(v))
	case string:
		s = v
	default:
		return "", fmt.Errorf("invalid port value %v", raw)
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 1:
		if _, err := strconv.Atoi(parts[0]); err != nil {
			return "", fmt.Errorf("invalid port number %q", parts[0])
		}
		return parts[0] + "/tcp", nil
	case 2:
		if _, err := strconv.Atoi(parts[0]); err != nil {
			break
		}
		if parts[1] == "tcp" || parts[1] == "udp" {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid port specification %q; expected <port> or <port>/{tcp,udp}", s)
}

// ParsePorts normalizes a container's raw `ports` config map (as decoded
// from YAML: map[string]interface{}) into named PortSpecs. Recognized
// value shapes: an int (TCP, same number exposed/external, bound to
// 0.0.0.0); a string "<exposed>[/proto][:<external>[/proto]]" (a single
// number is used for both); or a map with
// "exposed" and "external" keys, "external" being a number, a string, or
// a two-element [ip, spec] list.
func ParsePorts(subject string, raw map[string]interface{}) (map[string]PortSpec, error) {
	result := make(map[string]PortSpec, len(raw))
	for name, spec := range raw {
		parsed, err := parsePortSpec(subject, name, spec)
		if err != nil {
			return nil, err
		}
		result[name] = parsed
	}
	return result, nil
}

func parsePortSpec(subject, name string, spec interface{}) (PortSpec, error) {
	switch v := spec.(type) {
	case int, int64, float64:
		canon, err := validateProto(v)
		if err != nil {
			return PortSpec{}, errors.WrapConfigurationError(subject, err, "invalid port %q", name)
		}
		return PortSpec{Exposed: canon, External: ExternalBinding{BindIP: "0.0.0.0", Spec: canon}}, nil

	case string:
		rawParts := strings.SplitN(v, ":", 2)
		parts := make([]string, 0, len(rawParts))
		for _, p := range rawParts {
			canon, err := validateProto(p)
			if err != nil {
				return PortSpec{}, errors.WrapConfigurationError(subject, err, "invalid port spec %q for port %q", v, name)
			}
			parts = append(parts, canon)
		}
		if len(parts) == 1 {
			parts = append(parts, parts[0])
		}
		if parts[0][len(parts[0])-4:] != parts[1][len(parts[1])-4:] {
			return PortSpec{}, errors.NewConfigurationError(subject, "mismatched protocols between %s and %s for port %q", parts[0], parts[1], name)
		}
		return PortSpec{Exposed: parts[0], External: ExternalBinding{BindIP: "0.0.0.0", Spec: parts[1]}}, nil

	case map[string]interface{}:
		exposedRaw, hasExposed := v["exposed"]
		externalRaw, hasExternal := v["external"]
		if !hasExposed || !hasExternal {
			return PortSpec{}, errors.NewConfigurationError(subject, "invalid port spec for port %q: missing exposed/external", name)
		}
		exposed, err := validateProto(exposedRaw)
		if err != nil {
			return PortSpec{}, errors.WrapConfigurationError(subject, err, "invalid exposed port for %q", name)
		}

		bindIP := "0.0.0.0"
		var externalSpecRaw interface{}
		switch ext := externalRaw.(type) {
		case []interface{}:
			if len(ext) != 2 {
				return PortSpec{}, errors.NewConfigurationError(subject, "invalid external binding for port %q", name)
			}
			ip, ok := ext[0].(string)
			if !ok {
				return PortSpec{}, errors.NewConfigurationError(subject, "invalid external bind-ip for port %q", name)
			}
			bindIP = ip
			externalSpecRaw = ext[1]
		default:
			externalSpecRaw = ext
		}
		externalSpec, err := validateProto(externalSpecRaw)
		if err != nil {
			return PortSpec{}, errors.WrapConfigurationError(subject, err, "invalid external port for %q", name)
		}
		return PortSpec{Exposed: exposed, External: ExternalBinding{BindIP: bindIP, Spec: externalSpec}}, nil

	default:
		return PortSpec{}, errors.NewConfigurationError(subject, "invalid port spec %v for port %q", spec, name)
	}
}
