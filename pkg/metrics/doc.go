/*
Package metrics provides Prometheus instrumentation and HTTP health/readiness
endpoints for the orchestration core.

# Metrics

The Recorder interface is the seam pkg/tasks pushes through: task outcomes
by kind and result, task duration, in-flight pull progress per container,
and ship reachability. NewPrometheusRecorder returns the implementation
that feeds the process-wide registry exposed by Handler() at /metrics;
NoopRecorder discards everything and is what tests inject so they never
touch the global registry.

# Health

HealthChecker aggregates per-ship reachability: every ship the deployment
targets is registered up front with RegisterShip, and observations flow in
through UpdateShip (the Prometheus Recorder feeds it automatically from
ShipReachable). HealthHandler, ReadyHandler, and LivenessHandler expose
this over HTTP: /health reports the aggregate reachability of every
registered ship, /ready fails until every ship has been probed at least
once and answered, and /live always returns 200 while the process is
running, for supervisors that only want to know the process hasn't wedged.
*/
package metrics
