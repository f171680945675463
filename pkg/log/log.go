// Package log owns the root zerolog logger the orchestration core
// writes through, and the scoped constructors that keep ship, service,
// and container fields consistently named across packages.
//
// The root logger defaults to a no-op: this module is a library, and an
// embedding orchestrator that never calls Init gets silence on stderr,
// not surprise output. Operator-facing progress goes through
// output.Sink, never through this package.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the root logger. Init replaces it; until then every write
// is discarded.
var Logger = zerolog.Nop()

// Config controls the root logger Init builds.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Empty or unrecognized values mean "info".
	Level string

	// Console selects zerolog's human-readable console writer instead
	// of the default JSON lines.
	Console bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Init builds the root logger from cfg. The level is scoped to this
// logger rather than zerolog's global level, so an embedding process
// that also uses zerolog keeps its own verbosity untouched. Calling
// Init again replaces the logger; the last call wins.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// WithShip returns a child logger carrying a ship's name, for the
// host-access layer.
func WithShip(ship string) zerolog.Logger {
	return Logger.With().Str("ship", ship).Logger()
}

// WithService returns a child logger carrying a service's name, for
// graph construction and per-service reporting.
func WithService(service string) zerolog.Logger {
	return Logger.With().Str("service", service).Logger()
}

// WithContainer returns a child logger carrying a container instance's
// name.
func WithContainer(container string) zerolog.Logger {
	return Logger.With().Str("container", container).Logger()
}

// ForTask returns the logger one task run writes through: the
// container being driven, the task kind, and the run ID that ties that
// run's lines together once many containers are in flight at once.
func ForTask(container, task, runID string) zerolog.Logger {
	return Logger.With().
		Str("container", container).
		Str("task", task).
		Str("run_id", runID).
		Logger()
}
