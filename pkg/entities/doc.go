// Package entities defines the typed object graph the orchestration core
// operates on: Ships (container-engine hosts), Services (named groups of
// container instances sharing an image), and Containers (one instance
// each). It also owns every config-normalization rule applied when a
// Container is built from parsed configuration — ports, volumes, restart
// policy, memory limits — and the Graph aggregate that validates the
// whole deployment once construction is complete.
//
// Entities here are plain data plus derived-set bookkeeping; they hold no
// live engine connection. The host-access layer (package ship) wraps a
// Ship's connection descriptor with an actual Docker Engine API client,
// and the task engine (package tasks) is what drives state transitions.
package entities
