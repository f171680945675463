/*
Package ship wraps a single Ship's Docker Engine API connection: endpoint
resolution (SSH tunnel, Unix socket, or plain/TLS TCP, in that priority
order), and the thin typed operations the task engine drives a container
through — image catalog and pull, container create/start/stop/remove/
inspect/logs, exec, and registry login.

A Client is constructed once per Ship and reused; the underlying
*client.Client is documented safe for concurrent use, and Client adds no
locking of its own.

Every operation that talks to the engine classifies its failure before
returning it: a connection-level failure (the host never answered)
comes back as a *errors.TransientHostError carrying the Ship's name, so
the task engine can single it out with errors.As and report "host down"
without aborting sibling tasks; any other engine error is wrapped as a
plain error for the task to treat as its own failure. "No such
container" from inspect is not an error at all — it is reported as
Status{Present: false}, since polling for a container's disappearance
is a normal part of the stop and remove flows.
*/
package ship
