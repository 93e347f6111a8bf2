package dispatch

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/saylorsolutions/eventnode/syncx"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Event is something that happened, identified by Type, with an optional Payload.
type Event struct {
	Type    string
	Payload any
}

// Listener is called with each [Event] dispatched for the type it was registered with.
type Listener func(evt Event)

// Handle identifies a single listener registration.
type Handle string

// NewHandle creates a new, unique [Handle].
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

type registration struct {
	handle   Handle
	listener Listener
	once     bool
	removed  atomic.Bool
}

// Target is a set of listeners keyed by event type.
// The zero value is ready to use, and a Target is safe for concurrent use.
type Target struct {
	mux       sync.Mutex
	listeners map[string][]*registration
	log       *slog.Logger
}

// NewTarget creates a [Target] that reports recovered listener panics to log.
// A nil logger discards those reports.
func NewTarget(log *slog.Logger) *Target {
	return &Target{log: log}
}

// AddListener registers listener for typ, identified by h.
// Registering a [Handle] that is already registered for typ does nothing.
func (t *Target) AddListener(typ string, h Handle, listener Listener, opts ...Option) {
	if listener == nil {
		return
	}
	var conf config
	for _, opt := range opts {
		opt(&conf)
	}
	syncx.LockFunc(&t.mux, func() {
		if t.listeners == nil {
			t.listeners = map[string][]*registration{}
		}
		regs := t.listeners[typ]
		if slices.ContainsFunc(regs, func(r *registration) bool { return r.handle == h }) {
			return
		}
		t.listeners[typ] = append(regs, &registration{
			handle:   h,
			listener: listener,
			once:     conf.once,
		})
	})
}

// RemoveListener removes the listener registered for typ with h.
// It returns false if there was no such listener, which is not an error.
func (t *Target) RemoveListener(typ string, h Handle) bool {
	return syncx.LockFuncT(&t.mux, func() bool {
		return t.removeLocked(typ, h) != nil
	})
}

func (t *Target) removeLocked(typ string, h Handle) *registration {
	regs := t.listeners[typ]
	idx := slices.IndexFunc(regs, func(r *registration) bool { return r.handle == h })
	if idx < 0 {
		return nil
	}
	reg := regs[idx]
	reg.removed.Store(true)
	regs = slices.Delete(regs, idx, idx+1)
	if len(regs) == 0 {
		delete(t.listeners, typ)
	} else {
		t.listeners[typ] = regs
	}
	return reg
}

// Len returns the number of listeners currently registered for typ.
func (t *Target) Len(typ string) int {
	return syncx.LockFuncT(&t.mux, func() int {
		return len(t.listeners[typ])
	})
}

// Dispatch calls every listener registered for typ with an [Event] carrying payload.
func (t *Target) Dispatch(typ string, payload any) {
	regs := syncx.LockFuncT(&t.mux, func() []*registration {
		return slices.Clone(t.listeners[typ])
	})
	if len(regs) == 0 {
		return
	}
	evt := Event{Type: typ, Payload: payload}
	for _, reg := range regs {
		if reg.once {
			// Only the dispatch that actually detaches a once listener may call it.
			detached := syncx.LockFuncT(&t.mux, func() bool {
				return t.removeLocked(typ, reg.handle) == reg
			})
			if !detached {
				continue
			}
		} else if reg.removed.Load() {
			continue
		}
		t.call(reg, evt)
	}
}

func (t *Target) call(reg *registration, evt Event) {
	defer func() {
		if r := recover(); r != nil && t.log != nil {
			t.log.Warn("Recovered panic in event listener",
				slog.String("type", evt.Type),
				slog.String("handle", string(reg.handle)),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	reg.listener(evt)
}
