package node

import (
	"github.com/saylorsolutions/eventnode/dispatch"
	"sync"
	"sync/atomic"
)

// Race calls fn with the first event of typ dispatched on any of nodes.
// As soon as one node wins, the listener is removed from every node in the race, so fn is called exactly once.
func Race(nodes []*Node, typ string, fn dispatch.Listener) {
	if len(nodes) == 0 || fn == nil {
		return
	}
	var (
		mux     sync.Mutex
		won     atomic.Bool
		handles = make([]dispatch.Handle, len(nodes))
	)
	wrapper := func(evt dispatch.Event) {
		if !won.CompareAndSwap(false, true) {
			return
		}
		// Waits for registration to finish if the race was won while it was still in progress.
		mux.Lock()
		for i, n := range nodes {
			if n != nil && len(handles[i]) > 0 {
				n.Remove(typ, handles[i])
			}
		}
		mux.Unlock()
		fn(evt)
	}

	mux.Lock()
	defer mux.Unlock()
	for i, n := range nodes {
		if n == nil {
			continue
		}
		handles[i] = dispatch.NewHandle()
		n.listen(typ, handles[i], wrapper)
	}
}
