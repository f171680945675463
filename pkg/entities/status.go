package entities

import "time"

// Status is the most recent engine inspection result for a Container,
// trimmed to the fields the task engine and status reporting need.
// Present is false when the engine reported "no such container."
type Status struct {
	Present    bool
	ID         string
	Image      string
	Running    bool
	StartedAt  time.Time
	FinishedAt time.Time
}
