/*
Package node provides an event [Node] with richer listener semantics than the base [dispatch.Target] it wraps, and a per-key serialization primitive for asynchronous work.

# Listeners

Every listener registered through a [Node] is tracked by event type, so [Node.Destroy] can tear all of them down at once.
Registration returns a [dispatch.Handle] that's used with [Node.Remove].

On top of plain [Node.Listen], there are stateful wrappers:
  - [Node.ListenOnce] is called for one event.
  - [Node.ListenOnceOnly] is called for the first event satisfying a [Predicate].
  - [Node.ListenWhile] is called for every event until a [Predicate] fails, including the event that failed it.
  - [Node.ListenDebounceFirst] and [Node.ListenDebounceLast] collapse bursts of events to the first or last one, and [Node.ListenDebounce] picks one with [DebounceOption].
  - [Race] is called once, for the first event dispatched on any of several nodes.

[Node.WaitFor] blocks until an event arrives, and [Node.Callback] is the non-blocking version.

# Bubbling

A [Node] may have a parent, which it doesn't own.
[Node.EnableBubble] re-dispatches events of a type on the parent, and [Node.DisableBubble] stops that.

# Atomic queue

[Node.Atomic] serializes asynchronous work by key.
For a given node and key, at most one operation runs at any time, and operations start in the order they were submitted.
Each key gets one worker goroutine, created with the first submission, that consumes an unbounded FIFO queue until the node is destroyed.

Failures are isolated: an operation that returns an error or panics only rejects its own [syncx.Future].

[AtomicDo] is a different, coarser tool: an advisory critical section for a whole node, based on its [State] tag and an end event.

# Configuration

Debounce defaults may be set with the [EnvDebounceTimeout] and [EnvDebounceMode] environment variables, or per node with [WithDebounceDefaults].
Nodes log with [log/slog] and record atomic queue metrics with OpenTelemetry if a meter is given with [WithMeter].
*/
package node
