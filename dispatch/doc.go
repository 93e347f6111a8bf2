/*
Package dispatch provides the base publish/subscribe primitive that event nodes are layered on.

# Primitives

An [Event] is a string type tag plus an arbitrary payload.
A [Listener] receives every [Event] dispatched for the type it was registered with.

Go functions can't be compared, so every registration is identified by a [Handle] instead.
Create one with [NewHandle], register it with [Target.AddListener], and use the same [Handle] to remove it with [Target.RemoveListener].
Registering the same [Handle] for the same type twice is a no-op.

# Delivery

[Target.Dispatch] is synchronous: it returns once every listener has been called.
Listeners are called in registration order, against a snapshot taken when dispatch starts:
  - A listener added while an event is being dispatched won't see that event.
  - A listener removed while an event is being dispatched won't be called if it hasn't been already.

Listeners registered with [Once] are detached before their first and only call, even when the same type is dispatched concurrently from several goroutines.

A panicking listener is recovered and logged, and the remaining listeners are still called.
*/
package dispatch
