package node

import (
	"fmt"
	"github.com/saylorsolutions/eventnode/assert"
	"github.com/saylorsolutions/eventnode/clock"
	"github.com/saylorsolutions/eventnode/contextx"
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/saylorsolutions/eventnode/env"
	"sync"
	"time"
)

// DebounceMode selects which event of a burst survives debouncing.
type DebounceMode string

const (
	ModeFirst DebounceMode = "first" // ModeFirst passes the first event of a burst through immediately.
	ModeLast  DebounceMode = "last"  // ModeLast passes the last event of a burst through once the burst is over.
)

const (
	EnvDebounceTimeout = "EVENTNODE_DEBOUNCE_TIMEOUT" // EnvDebounceTimeout overrides the default debounce timeout. Bare integers are milliseconds.
	EnvDebounceMode    = "EVENTNODE_DEBOUNCE_MODE"    // EnvDebounceMode overrides the default debounce mode.
)

// DebounceOptions configures [Node.ListenDebounce].
type DebounceOptions struct {
	Timeout time.Duration
	Mode    DebounceMode
}

// DefaultDebounce is used when nothing else is specified.
var DefaultDebounce = DebounceOptions{
	Timeout: 100 * time.Millisecond,
	Mode:    ModeLast,
}

// DebounceOption changes [DebounceOptions].
type DebounceOption func(opts *DebounceOptions)

// Timeout sets the debounce window.
func Timeout(timeout time.Duration) DebounceOption {
	return func(opts *DebounceOptions) {
		opts.Timeout = timeout
	}
}

// Mode sets the [DebounceMode].
func Mode(mode DebounceMode) DebounceOption {
	return func(opts *DebounceOptions) {
		opts.Mode = mode
	}
}

func (o DebounceOptions) validate() error {
	err := assert.CollectErrors("; ").
		AddIf(o.Timeout < 0, "timeout %s is negative", o.Timeout).
		AddIf(o.Mode != ModeFirst && o.Mode != ModeLast, "unknown mode '%s'", o.Mode).
		Result()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDebounce, err)
	}
	return nil
}

func envDebounceDefaults() DebounceOptions {
	return DebounceOptions{
		Timeout: env.Duration(EnvDebounceTimeout, DefaultDebounce.Timeout),
		Mode:    env.OneOf(EnvDebounceMode, DefaultDebounce.Mode, ModeFirst, ModeLast),
	}
}

// ListenDebounce registers a debounced listener, using [Node.ListenDebounceFirst] or [Node.ListenDebounceLast] depending on the mode.
// Options are applied over the defaults of the [Node].
func (n *Node) ListenDebounce(typ string, fn dispatch.Listener, opts ...DebounceOption) (dispatch.Handle, error) {
	conf := n.debounce
	for _, opt := range opts {
		opt(&conf)
	}
	if err := conf.validate(); err != nil {
		return "", err
	}
	if conf.Mode == ModeFirst {
		return n.ListenDebounceFirst(typ, fn, conf.Timeout), nil
	}
	return n.ListenDebounceLast(typ, fn, conf.Timeout), nil
}

// ListenDebounceFirst calls fn for an event only if more than timeout has passed since the previous event of typ.
// Every event restarts the window, whether it was passed to fn or not, so a steady stream of events closer together than timeout only produces the first call.
func (n *Node) ListenDebounceFirst(typ string, fn dispatch.Listener, timeout time.Duration) dispatch.Handle {
	var (
		mux  sync.Mutex
		last time.Time
		seen bool
	)
	return n.Listen(typ, func(evt dispatch.Event) {
		now := n.clock.Now()
		mux.Lock()
		fire := !seen || now.Sub(last) > timeout
		seen = true
		last = now
		mux.Unlock()
		if fire {
			fn(evt)
		}
	})
}

// ListenDebounceLast calls fn with the latest event of typ once timeout passes without another one.
func (n *Node) ListenDebounceLast(typ string, fn dispatch.Listener, timeout time.Duration) dispatch.Handle {
	var (
		mux     sync.Mutex
		pending clock.Timer
		seq     uint64
	)
	return n.Listen(typ, func(evt dispatch.Event) {
		mux.Lock()
		defer mux.Unlock()
		if pending != nil {
			pending.Stop()
		}
		seq++
		scheduled := seq
		pending = n.clock.AfterFunc(timeout, func() {
			mux.Lock()
			// A stale timer lost a race with Stop.
			stale := scheduled != seq
			if !stale {
				pending = nil
			}
			mux.Unlock()
			if stale || contextx.IsDone(n.ctx) {
				return
			}
			fn(evt)
		})
	})
}
