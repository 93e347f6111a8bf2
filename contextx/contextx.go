package contextx

import "context"

// IsDone reports whether ctx has been cancelled without blocking.
func IsDone(ctx context.Context) bool {
	if ctx == nil {
		// Returning false in this case so the caller doesn't attempt to extract the context error.
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Join derives a [context.Context] from a that is also cancelled when b is done.
// Deadlines and values come from a, and the cancellation cause from whichever finished first.
//
// The returned [context.CancelFunc] must be called to release the association with b.
func Join(a, b context.Context) (context.Context, context.CancelFunc) {
	if a == nil {
		a = context.Background()
	}
	ctx, cancel := context.WithCancelCause(a)
	if b == nil {
		return ctx, func() { cancel(context.Canceled) }
	}
	stop := context.AfterFunc(b, func() {
		cancel(context.Cause(b))
	})
	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}
