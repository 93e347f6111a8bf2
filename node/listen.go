package node

import (
	"context"
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/saylorsolutions/eventnode/syncx"
	"reflect"
	"sync/atomic"
)

// Predicate decides whether an event is interesting to a conditional listener.
type Predicate func(evt dispatch.Event) bool

// PayloadEquals returns a [Predicate] that matches events whose payload is strictly equal to val.
// Payloads of a different dynamic type never match, and neither do payloads that can't be compared.
func PayloadEquals(val any) Predicate {
	return func(evt dispatch.Event) (matches bool) {
		if evt.Payload == nil || val == nil {
			return evt.Payload == nil && val == nil
		}
		typ := reflect.TypeOf(val)
		if reflect.TypeOf(evt.Payload) != typ || !typ.Comparable() {
			return false
		}
		defer func() {
			// Structs with interface fields are comparable types that can still hold uncomparable values.
			if recover() != nil {
				matches = false
			}
		}()
		return evt.Payload == val
	}
}

// ListenOnce registers fn to be called for the next event of typ only.
func (n *Node) ListenOnce(typ string, fn dispatch.Listener) dispatch.Handle {
	return n.Listen(typ, fn, dispatch.Once())
}

// ListenOnceOnly registers fn to be called for the first event of typ that only matches.
// Events that don't match leave the listener registered.
func (n *Node) ListenOnceOnly(typ string, fn dispatch.Listener, only Predicate) dispatch.Handle {
	h := dispatch.NewHandle()
	var fired atomic.Bool
	n.listen(typ, h, func(evt dispatch.Event) {
		if !only(evt) {
			return
		}
		if !fired.CompareAndSwap(false, true) {
			return
		}
		n.Remove(typ, h)
		fn(evt)
	})
	return h
}

// ListenWhile registers fn to be called for every event of typ until while returns false.
// The event that while rejects is still passed to fn, since fn is always called before while is evaluated.
func (n *Node) ListenWhile(typ string, fn dispatch.Listener, while Predicate) dispatch.Handle {
	h := dispatch.NewHandle()
	var done atomic.Bool
	n.listen(typ, h, func(evt dispatch.Event) {
		if done.Load() {
			return
		}
		fn(evt)
		if !while(evt) && done.CompareAndSwap(false, true) {
			n.Remove(typ, h)
		}
	})
	return h
}

// WaitFor blocks until an event of typ is dispatched, and returns its payload.
// If match predicates are given, then only an event that satisfies all of them ends the wait.
// Use [PayloadEquals] to wait for a specific payload.
//
// The wait ends early with the context's error if ctx is done, or [ErrDestroyed] if the [Node] is destroyed.
func (n *Node) WaitFor(ctx context.Context, typ string, match ...Predicate) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if n.Destroyed() {
		return nil, ErrDestroyed
	}
	result := syncx.NewFuture[any]()
	resolve := func(evt dispatch.Event) {
		result.Resolve(evt.Payload)
	}
	var h dispatch.Handle
	if len(match) > 0 {
		h = n.ListenOnceOnly(typ, resolve, allOf(match))
	} else {
		h = n.ListenOnce(typ, resolve)
	}

	select {
	case <-result.Done():
	case <-ctx.Done():
		n.Remove(typ, h)
		if !result.Settled() {
			return nil, ctx.Err()
		}
	case <-n.ctx.Done():
		n.Remove(typ, h)
		if !result.Settled() {
			return nil, ErrDestroyed
		}
	}
	return result.Await(context.Background())
}

// Callback calls fn with the payload of the next event of typ, without blocking the caller.
// The returned [dispatch.Handle] may be used to give up on the event.
func (n *Node) Callback(typ string, fn func(payload any)) dispatch.Handle {
	return n.ListenOnce(typ, func(evt dispatch.Event) {
		fn(evt.Payload)
	})
}

func allOf(preds []Predicate) Predicate {
	if len(preds) == 1 {
		return preds[0]
	}
	return func(evt dispatch.Event) bool {
		for _, pred := range preds {
			if !pred(evt) {
				return false
			}
		}
		return true
	}
}
