package node

import (
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/saylorsolutions/eventnode/syncx"
	"log/slog"
)

// ParentResolver picks the node an event bubbles to at the time it's dispatched.
type ParentResolver func() *Node

// EnableBubble re-dispatches every event of typ on the parent of the [Node].
// The parent is resolved for each event, with resolver if given or [Node.Parent] otherwise, and the event is dropped if there is none.
// Enabling bubbling for a type that already bubbles does nothing.
func (n *Node) EnableBubble(typ string, resolver ...ParentResolver) {
	resolve := n.Parent
	if len(resolver) > 0 && resolver[0] != nil {
		resolve = resolver[0]
	}
	syncx.LockFunc(&n.mux, func() {
		if _, ok := n.bubbles[typ]; ok {
			return
		}
		h := dispatch.NewHandle()
		n.listenLocked(typ, h, func(evt dispatch.Event) {
			parent := resolve()
			if parent == nil || parent == n {
				return
			}
			parent.Dispatch(evt.Type, evt.Payload)
		})
		n.bubbles[typ] = h
		n.log.Debug("Bubbling enabled", slog.String("type", typ))
	})
}

// DisableBubble stops events of typ from bubbling.
// Disabling bubbling that was never enabled does nothing.
func (n *Node) DisableBubble(typ string) {
	syncx.LockFunc(&n.mux, func() {
		h, ok := n.bubbles[typ]
		if !ok {
			return
		}
		delete(n.bubbles, typ)
		n.removeLocked(typ, h)
		n.log.Debug("Bubbling disabled", slog.String("type", typ))
	})
}

// Bubbling reports whether events of typ bubble.
func (n *Node) Bubbling(typ string) bool {
	return syncx.LockFuncT(&n.mux, func() bool {
		_, ok := n.bubbles[typ]
		return ok
	})
}
