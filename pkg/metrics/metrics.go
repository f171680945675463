package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the narrow interface pkg/tasks pushes outcomes through. It
// exists so tests can inject NoopRecorder instead of touching the global
// Prometheus registry.
type Recorder interface {
	// TaskCompleted records one finished task, labeled by kind (start,
	// stop, restart, pull, login, remove, status) and result (success,
	// failure).
	TaskCompleted(kind, result string, duration time.Duration)

	// PullProgress updates the in-flight pull percentage for a container.
	PullProgress(container string, percent float64)

	// PullFinished removes a container's pull-progress series once the
	// pull is done, successful or not.
	PullFinished(container string)

	// ShipReachable records whether a ship answered its last health
	// probe.
	ShipReachable(ship string, reachable bool)
}

var (
	tasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anchorage_tasks_total",
			Help: "Total number of tasks completed, by kind and result",
		},
		[]string{"kind", "result"},
	)

	taskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "anchorage_task_duration_seconds",
			Help:    "Task duration in seconds, by kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	pullProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anchorage_pull_progress_percent",
			Help: "Progress of an in-flight image pull, by container",
		},
		[]string{"container"},
	)

	shipReachable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "anchorage_ship_reachable",
			Help: "Whether a ship answered its last health probe (1 = reachable, 0 = not)",
		},
		[]string{"ship"},
	)
)

func init() {
	prometheus.MustRegister(tasksTotal)
	prometheus.MustRegister(taskDuration)
	prometheus.MustRegister(pullProgress)
	prometheus.MustRegister(shipReachable)
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// prometheusRecorder is the default Recorder, backed by the package's
// registered collectors.
type prometheusRecorder struct{}

// NewPrometheusRecorder returns the Recorder that feeds the process-wide
// Prometheus registry exposed at Handler().
func NewPrometheusRecorder() Recorder {
	return prometheusRecorder{}
}

func (prometheusRecorder) TaskCompleted(kind, result string, duration time.Duration) {
	tasksTotal.WithLabelValues(kind, result).Inc()
	taskDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

func (prometheusRecorder) PullProgress(container string, percent float64) {
	pullProgress.WithLabelValues(container).Set(percent)
}

func (prometheusRecorder) PullFinished(container string) {
	pullProgress.DeleteLabelValues(container)
}

func (prometheusRecorder) ShipReachable(ship string, reachable bool) {
	value := 0.0
	if reachable {
		value = 1.0
	}
	shipReachable.WithLabelValues(ship).Set(value)
	UpdateShip(ship, reachable, "")
}

// NoopRecorder discards everything. Useful for tests and for callers that
// never configured a Prometheus registry.
type NoopRecorder struct{}

func (NoopRecorder) TaskCompleted(string, string, time.Duration) {}
func (NoopRecorder) PullProgress(string, float64)                {}
func (NoopRecorder) PullFinished(string)                         {}
func (NoopRecorder) ShipReachable(string, bool)                  {}

// Timer measures how long one task run took, from construction to the
// Duration call that feeds TaskCompleted.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
