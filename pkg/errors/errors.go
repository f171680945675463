// Package errors defines the error taxonomy shared by the entity graph,
// the configuration intake, and the task engine: configuration failures
// that abort graph construction, and the three runtime failure kinds a
// Task can report without bringing down its peers.
package errors

import "fmt"

// ConfigurationError is raised while building the entity graph from
// parsed configuration: missing SSH credentials, an unknown restart
// policy, a malformed port/volume/memory spec, or a volume-target
// conflict. It is always fatal to the invocation.
type ConfigurationError struct {
	// Subject names the entity (container/service/ship) the error
	// pertains to, when known.
	Subject string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("configuration error for %s: %s", e.Subject, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Unwrap() error { return e.Cause }

// NewConfigurationError builds a ConfigurationError scoped to subject.
func NewConfigurationError(subject, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// WrapConfigurationError wraps cause as a ConfigurationError scoped to subject.
func WrapConfigurationError(subject string, cause error, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Subject: subject, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// OrchestrationError is raised by Tasks for unrecoverable runtime
// failures: the container never became inspectable after create, it
// never reached Running after start, its running probes ultimately
// failed, an image pull stream reported an error, or registry login
// failed. Log carries a log excerpt for start failures, when available.
type OrchestrationError struct {
	Message string
	Log     string
	Cause   error
}

func (e *OrchestrationError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Log != "" {
		return fmt.Sprintf("%s\n%s", msg, e.Log)
	}
	return msg
}

func (e *OrchestrationError) Unwrap() error { return e.Cause }

// NewOrchestrationError builds an OrchestrationError with no log excerpt.
func NewOrchestrationError(format string, args ...interface{}) *OrchestrationError {
	return &OrchestrationError{Message: fmt.Sprintf(format, args...)}
}

// WrapOrchestrationError wraps cause as an OrchestrationError.
func WrapOrchestrationError(cause error, format string, args ...interface{}) *OrchestrationError {
	return &OrchestrationError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithLog attaches a log excerpt (e.g. the failed container's logs) and
// returns the same error for chaining.
func (e *OrchestrationError) WithLog(log string) *OrchestrationError {
	e.Log = log
	return e
}

// TransientHostError reports that an engine call raised because the
// host (Ship) was unreachable. It is scoped to a single Task and must
// never abort sibling tasks targeting other containers.
type TransientHostError struct {
	Ship  string
	Cause error
}

func (e *TransientHostError) Error() string {
	return fmt.Sprintf("host %s unreachable: %v", e.Ship, e.Cause)
}

func (e *TransientHostError) Unwrap() error { return e.Cause }

// NewTransientHostError builds a TransientHostError for the given ship.
func NewTransientHostError(ship string, cause error) *TransientHostError {
	return &TransientHostError{Ship: ship, Cause: cause}
}

// StopFailure reports that stopping a container did not cleanly reach
// the "stopped" lifecycle state. Non-fatal: it is reported to the
// output sink but never propagated to abort a sequence.
type StopFailure struct {
	Container string
	Cause     error
}

func (e *StopFailure) Error() string {
	return fmt.Sprintf("failed to stop %s: %v", e.Container, e.Cause)
}

func (e *StopFailure) Unwrap() error { return e.Cause }

// NewStopFailure builds a StopFailure for the given container.
func NewStopFailure(container string, cause error) *StopFailure {
	return &StopFailure{Container: container, Cause: cause}
}
