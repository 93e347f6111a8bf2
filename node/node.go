package node

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/saylorsolutions/eventnode/assert"
	"github.com/saylorsolutions/eventnode/clock"
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/saylorsolutions/eventnode/slogx"
	"github.com/saylorsolutions/eventnode/structures/set"
	"github.com/saylorsolutions/eventnode/syncx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"log/slog"
	"sync"
)

// State is an opaque tag a [Node] may be marked with, and must be comparable.
type State = any

// Node is an event node.
// It's safe for concurrent use.
type Node struct {
	name     string
	target   *dispatch.Target
	clock    clock.Clock
	log      *slog.Logger
	meter    metric.Meter
	metrics  *atomicMetrics
	debounce DebounceOptions

	ctx    context.Context
	cancel context.CancelCauseFunc

	mux       sync.Mutex
	parent    *Node
	state     State
	listeners map[string]set.Set[dispatch.Handle]
	bubbles   map[string]dispatch.Handle
	queues    map[string]*atomicQueue
}

// New creates a [Node] with empty registries.
// New panics if the debounce defaults given with [WithDebounceDefaults] are invalid.
func New(opts ...Option) *Node {
	conf := new(config)
	for _, opt := range opts {
		opt(conf)
	}
	if len(conf.name) == 0 {
		conf.name = uuid.NewString()[:8]
	}
	if conf.clock == nil {
		conf.clock = clock.Real()
	}
	debounce := envDebounceDefaults()
	for _, opt := range conf.debounce {
		opt(&debounce)
	}
	if err := debounce.validate(); err != nil {
		panic(fmt.Sprintf("debounce defaults for node '%s': %v", conf.name, err))
	}

	log := slogx.Dedupe(conf.log).With("node", conf.name)
	meter := conf.meter
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(instrumentationName)
	}
	metrics, err := newAtomicMetrics(meter)
	if err != nil {
		log.Warn("Failed to create atomic queue instruments, metrics are disabled", slog.String("error", err.Error()))
		metrics, _ = newAtomicMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	return &Node{
		name:      conf.name,
		target:    dispatch.NewTarget(log),
		clock:     conf.clock,
		log:       log,
		meter:     meter,
		metrics:   metrics,
		debounce:  debounce,
		ctx:       ctx,
		cancel:    cancel,
		parent:    conf.parent,
		listeners: map[string]set.Set[dispatch.Handle]{},
		bubbles:   map[string]dispatch.Handle{},
		queues:    map[string]*atomicQueue{},
	}
}

// Child creates a [Node] whose parent is n.
// The child shares n's clock, meter, logger, and debounce defaults, and is named after n.
// Child panics if name is empty.
func (n *Node) Child(name string, opts ...Option) *Node {
	assert.True("child node name is not empty", len(name) > 0)
	debounce := n.debounce
	inherited := []Option{
		WithName(n.name + "/" + name),
		WithLogger(n.log),
		WithClock(n.clock),
		WithMeter(n.meter),
		WithParent(n),
		WithDebounceDefaults(Timeout(debounce.Timeout), Mode(debounce.Mode)),
	}
	return New(append(inherited, opts...)...)
}

// Name returns the name the [Node] logs with.
func (n *Node) Name() string {
	return n.name
}

// Parent returns the node events bubble to, if any.
func (n *Node) Parent() *Node {
	return syncx.LockFuncT(&n.mux, func() *Node {
		return n.parent
	})
}

// SetParent changes the node events bubble to.
// The parent is not owned, so this has no effect on the lifecycle of either node, and nil clears it.
func (n *Node) SetParent(parent *Node) {
	syncx.LockFunc(&n.mux, func() {
		n.parent = parent
	})
}

// State returns the current state tag, which is nil by default.
func (n *Node) State() State {
	return syncx.LockFuncT(&n.mux, func() State {
		return n.state
	})
}

// SetState sets the state tag.
// The state is compared with ==, so it panics if state is not comparable.
func (n *Node) SetState(state State) {
	assert.Comparable("node state", state)
	syncx.LockFunc(&n.mux, func() {
		n.state = state
	})
}

// Dispatch calls every listener registered for typ with payload.
func (n *Node) Dispatch(typ string, payload any) {
	n.target.Dispatch(typ, payload)
}

// Listen registers fn for typ, and returns the [dispatch.Handle] that identifies it for [Node.Remove].
// Options are passed through to the underlying [dispatch.Target].
func (n *Node) Listen(typ string, fn dispatch.Listener, opts ...dispatch.Option) dispatch.Handle {
	h := dispatch.NewHandle()
	n.listen(typ, h, fn, opts...)
	return h
}

func (n *Node) listen(typ string, h dispatch.Handle, fn dispatch.Listener, opts ...dispatch.Option) {
	syncx.LockFunc(&n.mux, func() {
		n.listenLocked(typ, h, fn, opts...)
	})
}

// listenLocked must be called with the lock held.
func (n *Node) listenLocked(typ string, h dispatch.Handle, fn dispatch.Listener, opts ...dispatch.Option) {
	if fn == nil {
		return
	}
	if dispatch.IsOnce(opts...) {
		inner := fn
		fn = func(evt dispatch.Event) {
			n.forget(typ, h)
			inner(evt)
		}
	}
	n.listeners[typ] = n.listeners[typ].Add(h)
	n.target.AddListener(typ, h, fn, opts...)
}

// forget drops the registry entry of a once listener that the target already detached.
func (n *Node) forget(typ string, h dispatch.Handle) {
	syncx.LockFunc(&n.mux, func() {
		if handles, ok := n.listeners[typ]; ok {
			handles.Remove(h)
		}
	})
}

// Remove unregisters the listener identified by h from typ.
// Removing a listener that isn't registered does nothing.
func (n *Node) Remove(typ string, h dispatch.Handle) {
	syncx.LockFunc(&n.mux, func() {
		n.removeLocked(typ, h)
	})
}

// removeLocked must be called with the lock held.
func (n *Node) removeLocked(typ string, h dispatch.Handle) {
	n.listeners[typ] = n.listeners[typ].Remove(h)
	n.target.RemoveListener(typ, h)
}

// Listeners returns the handles of listeners currently registered for typ.
func (n *Node) Listeners(typ string) []dispatch.Handle {
	return syncx.LockFuncT(&n.mux, func() []dispatch.Handle {
		return n.listeners[typ].Slice()
	})
}

// Destroy removes every listener registered through the [Node], across all types.
//
// Destroy also ends the asynchronous machinery of the [Node]: atomic queue workers stop and reject tasks that haven't started with [ErrDestroyed],
// pending debounced calls are dropped, and waits return [ErrDestroyed].
// Listeners may still be added and dispatched to afterward.
// Calling Destroy more than once is safe.
func (n *Node) Destroy() {
	var removed int
	syncx.LockFunc(&n.mux, func() {
		for typ, handles := range n.listeners {
			for h := range handles {
				n.target.RemoveListener(typ, h)
				removed++
			}
		}
		n.listeners = map[string]set.Set[dispatch.Handle]{}
		n.bubbles = map[string]dispatch.Handle{}
		n.queues = map[string]*atomicQueue{}
	})
	n.cancel(ErrDestroyed)
	n.log.Debug("Node destroyed", slog.Int("listeners_removed", removed))
}

// Destroyed reports whether [Node.Destroy] has been called.
func (n *Node) Destroyed() bool {
	return n.ctx.Err() != nil
}
