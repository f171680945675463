package lifecycle

import (
	"fmt"
	"time"
)

// FromConfig builds the Probe described by raw (one entry of a
// container's `lifecycle.<state>` list) for the given container.
//
// Recognized shapes:
//
//	{type: tcp, port: <name>}                        // dial the container's external port
//	{type: tcp, address: "host:port"}                // dial an explicit address
//	{type: http, port: <name>, path: "/health", ...}  // GET http://<ship>:<port><path>
//	{type: http, url: "http://..."}                   // GET an explicit URL
//	{type: exec, command: [...], timeout: <seconds>}  // exec in the container
//	{type: sleep, seconds: <n>}                       // unconditional settle delay
func FromConfig(ref ContainerRef, execer Execer, containerID string, raw map[string]interface{}) (Probe, error) {
	kind, _ := raw["type"].(string)
	switch Kind(kind) {
	case KindTCP:
		return tcpFromConfig(ref, raw)
	case KindHTTP:
		return httpFromConfig(ref, raw)
	case KindExec:
		return execFromConfig(execer, containerID, raw)
	case KindSleep:
		return sleepFromConfig(raw)
	default:
		return nil, unsupportedKind(kind)
	}
}

func resolvePort(ref ContainerRef, raw map[string]interface{}) (string, error) {
	name, ok := raw["port"].(string)
	if !ok || name == "" {
		return "", fmt.Errorf("lifecycle check requires a \"port\" name")
	}
	number, _, ok := ref.ExternalPort(name)
	if !ok {
		return "", fmt.Errorf("no such port %q", name)
	}
	return number, nil
}

func tcpFromConfig(ref ContainerRef, raw map[string]interface{}) (Probe, error) {
	if addr, ok := raw["address"].(string); ok && addr != "" {
		return NewTCPProbe(addr), nil
	}
	port, err := resolvePort(ref, raw)
	if err != nil {
		return nil, err
	}
	return NewTCPProbe(fmt.Sprintf("%s:%s", ref.ShipAddress(), port)), nil
}

func httpFromConfig(ref ContainerRef, raw map[string]interface{}) (Probe, error) {
	if url, ok := raw["url"].(string); ok && url != "" {
		return buildHTTPProbe(url, raw), nil
	}
	port, err := resolvePort(ref, raw)
	if err != nil {
		return nil, err
	}
	scheme, _ := raw["scheme"].(string)
	if scheme == "" {
		scheme = "http"
	}
	path, _ := raw["path"].(string)
	if path == "" {
		path = "/"
	}
	url := fmt.Sprintf("%s://%s:%s%s", scheme, ref.ShipAddress(), port, path)
	return buildHTTPProbe(url, raw), nil
}

func buildHTTPProbe(url string, raw map[string]interface{}) *HTTPProbe {
	p := NewHTTPProbe(url)
	if method, ok := raw["method"].(string); ok && method != "" {
		p.Method = method
	}
	if min, ok := intFromConfig(raw["status_min"]); ok {
		p.StatusMin = min
	}
	if max, ok := intFromConfig(raw["status_max"]); ok {
		p.StatusMax = max
	}
	return p
}

func execFromConfig(execer Execer, containerID string, raw map[string]interface{}) (Probe, error) {
	rawCmd, ok := raw["command"].([]interface{})
	if !ok || len(rawCmd) == 0 {
		return nil, fmt.Errorf("exec lifecycle check requires a non-empty \"command\" list")
	}
	command := make([]string, 0, len(rawCmd))
	for _, c := range rawCmd {
		s, ok := c.(string)
		if !ok {
			return nil, fmt.Errorf("exec lifecycle check command entries must be strings")
		}
		command = append(command, s)
	}
	p := NewExecProbe(execer, containerID, command)
	if secs, ok := numberFromConfig(raw["timeout"]); ok {
		p.Timeout = time.Duration(secs * float64(time.Second))
	}
	return p, nil
}

func sleepFromConfig(raw map[string]interface{}) (Probe, error) {
	secs, ok := numberFromConfig(raw["seconds"])
	if !ok {
		return nil, fmt.Errorf("sleep lifecycle check requires a \"seconds\" value")
	}
	return NewSleepProbe(time.Duration(secs * float64(time.Second))), nil
}

func intFromConfig(v interface{}) (int, bool) {
	f, ok := numberFromConfig(v)
	return int(f), ok
}

func numberFromConfig(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
