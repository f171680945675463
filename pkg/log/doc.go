/*
Package log provides structured logging built on zerolog: a root
logger, level/format/output configuration, and scoped child-logger
constructors for the entities the orchestration core talks about.

# Usage

The root logger is a no-op until the embedding process opts in:

	import "github.com/cuemby/anchorage/pkg/log"

	log.Init(log.Config{
		Level:   "info",
		Console: false, // JSON lines, for log aggregation
	})

Scoped loggers, one per entity:

	log.WithShip("ship-1").Debug().Str("host", host).Msg("engine client ready")

	log.WithService("api").Debug().Int("instances", 3).Msg("service wired")

	log.WithContainer("api-1").Error().Err(err).Msg("inspect failed")

The task engine logs through ForTask, which stamps every line of one
task run with the container, the task kind, and a run ID so the run's
start and outcome correlate even when many containers are driven
concurrently:

	logger := log.ForTask("api-1", "start", runID)
	logger.Info().Msg("task started")
	logger.Error().Err(err).Msg("task failed")

# Levels

Level names are zerolog's: "debug" for development and verbose
troubleshooting, "info" as the production default, "warn" for
conditions worth attention that fail nothing, "error" for operations
that did not succeed. The level is scoped to this module's root logger,
not zerolog's process-global level, so an embedding orchestrator that
also uses zerolog keeps its own verbosity.

# Notes

Never log secrets: registry passwords and TLS keys must never reach a
log line, even at debug. Prefer the scoped constructors over ad-hoc
.Str() chains so container/service/ship fields stay consistently named
across the codebase and remain queryable in log aggregation. This
package is for diagnostics; operator-facing progress goes through
output.Sink.
*/
package log
