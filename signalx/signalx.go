package signalx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// ErrSignal is the cancellation cause of a context from [SignalCtx] when a signal was received.
var ErrSignal = errors.New("received signal")

var exit = os.Exit

// SignalCtx sets up a context that will be cancelled if any of the given signals are received.
// The cause of cancellation wraps [ErrSignal] and names the signal.
//
// If a second signal is received before stop is called, then the process exits with a non-zero exit code.
// Calling stop releases the signal handler and cancels the context, and is safe to call more than once.
func SignalCtx(parent context.Context, signals ...os.Signal) (ctx context.Context, stop context.CancelFunc) {
	if len(signals) == 0 {
		panic("no signals passed to SignalCtx")
	}
	ctx, cancel := context.WithCancelCause(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals...)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigs:
			cancel(fmt.Errorf("%w: %s", ErrSignal, sig))
		case <-done:
			return
		}
		select {
		case <-sigs:
			exit(1)
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(sigs)
			close(done)
			cancel(context.Canceled)
		})
	}
}
