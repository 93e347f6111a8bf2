package node

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventnode/assert"
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/saylorsolutions/eventnode/syncx"
)

const (
	DefaultBusyState = "busy" // DefaultBusyState is the state [AtomicDo] marks a node with by default.
	DefaultEndEvent  = "end"  // DefaultEndEvent is the event [AtomicDo] dispatches by default when it's done.
)

type guardConfig struct {
	state    State
	endEvent string
}

// GuardOption configures [AtomicDo].
type GuardOption func(conf *guardConfig)

// GuardState sets the state that marks the node as busy.
func GuardState(state State) GuardOption {
	return func(conf *guardConfig) {
		conf.state = state
	}
}

// GuardEndEvent sets the event type dispatched when the guarded operation is done.
func GuardEndEvent(typ string) GuardOption {
	return func(conf *guardConfig) {
		conf.endEvent = typ
	}
}

// AtomicDo runs op while n is marked with a busy state, as an advisory critical section for the whole node.
//
// If n is already in the busy state, AtomicDo waits for the end event and checks again, as many times as it takes.
// Once n is not busy, the previous state is recorded, n is marked busy, and op runs.
// Afterward, the previous state is restored and the end event is dispatched, even if op failed.
//
// Checking the state and registering to wait for the end event happen together, so an end event can't slip between them.
// This is unrelated to the keyed queue of [Node.Atomic].
func AtomicDo(ctx context.Context, n *Node, op func(ctx context.Context) error, opts ...GuardOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if op == nil {
		return ErrNilOperation
	}
	conf := guardConfig{
		state:    DefaultBusyState,
		endEvent: DefaultEndEvent,
	}
	for _, opt := range opts {
		opt(&conf)
	}
	assert.Comparable("guard state", conf.state)

	prev, err := n.acquire(ctx, conf)
	if err != nil {
		return err
	}
	defer n.release(prev, conf)
	return guarded(ctx, op)
}

func (n *Node) acquire(ctx context.Context, conf guardConfig) (State, error) {
	for {
		var (
			prev     State
			acquired bool
			wake     = make(chan struct{})
			h        = dispatch.NewHandle()
		)
		syncx.LockFunc(&n.mux, func() {
			if n.state != conf.state {
				prev = n.state
				n.state = conf.state
				acquired = true
				return
			}
			n.listenLocked(conf.endEvent, h, func(dispatch.Event) {
				close(wake)
			}, dispatch.Once())
		})
		if acquired {
			return prev, nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			n.Remove(conf.endEvent, h)
			return nil, ctx.Err()
		case <-n.ctx.Done():
			n.Remove(conf.endEvent, h)
			return nil, ErrDestroyed
		}
	}
}

func (n *Node) release(prev State, conf guardConfig) {
	syncx.LockFunc(&n.mux, func() {
		n.state = prev
	})
	n.Dispatch(conf.endEvent, nil)
}

func guarded(ctx context.Context, op func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrOperationPanic, r)
		}
	}()
	return op(ctx)
}
