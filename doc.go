// Package machinemodel implements a typed, hierarchical machine data
// model: a node tree of folders, typed variables, and methods addressed
// by path or id, a per-variable subscription mechanism, a composite
// method interpreter for multi-step control-flow graphs, and a protocol
// manager that routes request/response and event traffic against them.
//
// # Packages
//
// value: the typed scalar/object variant carried by every readable node.
//
// merrors: the error taxonomy shared by every package's failure modes.
//
// tree: the node tree itself — Folder, the three scalar variable kinds,
// ObjectVariable, Method, AsyncMethod, and CompositeMethod — plus
// path/id resolution and hooks.
//
// subscription: the per-variable subscriber list and its All/DataChange/
// Range filter variants.
//
// flow: the control-flow graph vocabulary (steps, expressions, operators)
// a CompositeMethod's graph is built from.
//
// composite: the suspendable interpreter that steps a CompositeMethod's
// graph, resuming on the variable writes its WaitSteps depend on.
//
// protocol: the envelope, dispatch table, and outbound queue that expose
// the tree and engine to a request/response client.
//
// trace: an optional passive event-emission interface with no backend of
// its own.
//
// config: embedder-supplied tunables (deadbands, deadlines, buffer
// sizes) behind a thread-safe accessor.
package machinemodel
