/*
Package lifecycle provides the readiness/liveness probe contract used to
gate container start and stop transitions.

A Probe is opaque and side-effect free: Test(ctx) reports whether the
condition it checks currently holds, nothing more. Callers that need
hysteresis, retry counts, or polling intervals build that on top — this
package does not track state across calls.

Four probe kinds are provided:

  - TCPProbe dials an address and reports whether the connection opens.
  - HTTPProbe issues a request and reports whether the status code falls
    in an accepted range.
  - ExecProbe runs a command inside a container (via the Execer it is
    given) and reports whether it exits zero.
  - SleepProbe reports true unconditionally after a fixed delay, for
    services with no real readiness signal.

FromConfig builds a Probe from one decoded YAML entry of a container's
lifecycle check list, resolving named container ports through the
ContainerRef the caller supplies. ContainerRef and Execer are small
interfaces rather than concrete types so this package never needs to
import the entity or host-client packages that implement them.
*/
package lifecycle
