package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// HealthStatus is the JSON body the health endpoints serve.
type HealthStatus struct {
	Status    string            `json:"status"` // health: "healthy", "degraded", "unhealthy"; readiness: "ready", "not_ready"
	Timestamp time.Time         `json:"timestamp"`
	Ships     map[string]string `json:"ships,omitempty"`
	Message   string            `json:"message,omitempty"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
}

// ShipHealth tracks the last observed reachability of one ship.
type ShipHealth struct {
	Name      string
	Reachable bool
	Message   string
	Updated   time.Time
}

// HealthChecker aggregates per-ship reachability for the health
// endpoints. Ships are registered up front from the deployment graph
// and updated as tasks and reachability probes observe them.
type HealthChecker struct {
	mu        sync.RWMutex
	ships     map[string]ShipHealth
	startTime time.Time
	version   string
}

var healthChecker = &HealthChecker{
	ships:     make(map[string]ShipHealth),
	startTime: time.Now(),
}

// SetVersion sets the version string for health responses.
func SetVersion(version string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.version = version
}

// RegisterShip declares a ship the deployment targets. Until its first
// UpdateShip the ship counts as not yet probed and holds readiness down.
func RegisterShip(name string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	if _, exists := healthChecker.ships[name]; exists {
		return
	}
	healthChecker.ships[name] = ShipHealth{Name: name}
}

// UpdateShip records the latest reachability observation for a ship.
// Ships never registered are added implicitly.
func UpdateShip(name string, reachable bool, message string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.ships[name] = ShipHealth{
		Name:      name,
		Reachable: reachable,
		Message:   message,
		Updated:   time.Now(),
	}
}

// GetHealth reports the aggregate reachability of every registered
// ship: healthy when all answer, degraded when some don't, unhealthy
// when none do.
func GetHealth() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	ships := make(map[string]string)
	reachable := 0
	for name, sh := range healthChecker.ships {
		switch {
		case sh.Updated.IsZero():
			ships[name] = "unknown"
		case sh.Reachable:
			ships[name] = "reachable"
			reachable++
		case sh.Message != "":
			ships[name] = "unreachable: " + sh.Message
		default:
			ships[name] = "unreachable"
		}
	}

	status := "healthy"
	if len(healthChecker.ships) > 0 {
		if reachable == 0 {
			status = "unhealthy"
		} else if reachable < len(healthChecker.ships) {
			status = "degraded"
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Ships:     ships,
		Version:   healthChecker.version,
		Uptime:    time.Since(healthChecker.startTime).String(),
	}
}

// GetReadiness reports whether every registered ship has been probed at
// least once and answered. A deployment whose ships were never reached
// is not ready to be driven.
func GetReadiness() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := "ready"
	message := ""
	ships := make(map[string]string)

	for name, sh := range healthChecker.ships {
		switch {
		case sh.Updated.IsZero():
			status = "not_ready"
			message = "waiting for first probe of " + name
			ships[name] = "not probed"
		case !sh.Reachable:
			status = "not_ready"
			message = name + " unreachable"
			ships[name] = "unreachable"
		default:
			ships[name] = "ready"
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Ships:     ships,
		Message:   message,
		Version:   healthChecker.version,
		Uptime:    time.Since(healthChecker.startTime).String(),
	}
}

// HealthHandler returns an HTTP handler for the /health endpoint.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := GetHealth()

		w.Header().Set("Content-Type", "application/json")

		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)

		_ = json.NewEncoder(w).Encode(health)
	}
}

// ReadyHandler returns an HTTP handler for the /ready endpoint.
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readiness := GetReadiness()

		w.Header().Set("Content-Type", "application/json")

		statusCode := http.StatusOK
		if readiness.Status != "ready" {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)

		_ = json.NewEncoder(w).Encode(readiness)
	}
}

// LivenessHandler returns a simple liveness check: 200 whenever the
// process is running.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "alive",
			"uptime": time.Since(healthChecker.startTime).String(),
		})
	}
}
