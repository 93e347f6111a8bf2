package syncx

import (
	"context"
	"sync"
	"time"
)

// Future is a result that is settled asynchronously at a later time.
// A Future settles exactly once, with a value or an error, and the settled result is cached for every later call to [Future.Await].
//
// The zero value is not usable, use [NewFuture], [Resolved], or [Rejected].
type Future[T any] struct {
	settle sync.Once
	done   chan struct{}
	val    T
	err    error
}

func NewFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

// Resolved returns a [Future] that is already settled with val.
func Resolved[T any](val T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(val)
	return f
}

// Rejected returns a [Future] that is already settled with err.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Resolve settles the [Future] with a value.
// Only the first call to Resolve, Reject, or Settle will set the result. Subsequent calls do nothing.
func (f *Future[T]) Resolve(val T) {
	f.Settle(val, nil)
}

// Reject settles the [Future] with an error and the zero value of T.
func (f *Future[T]) Reject(err error) {
	var zero T
	f.Settle(zero, err)
}

// Settle sets both the value and the error of the [Future].
// It returns true if this call settled the [Future].
func (f *Future[T]) Settle(val T, err error) bool {
	var settled bool
	f.settle.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
		settled = true
	})
	return settled
}

// Done returns a channel that is closed once the [Future] is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether a result is available without blocking.
func (f *Future[T]) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Await blocks until the [Future] is settled or the context is done.
// If the context is done first, then the zero value of T is returned along with the context's error.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AwaitTimeout is the same as [Future.Await] with a timeout instead of a context.
// A timeout <= 0 waits indefinitely.
func (f *Future[T]) AwaitTimeout(timeout time.Duration) (T, error) {
	if timeout <= 0 {
		return f.Await(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.Await(ctx)
}

// Then calls fn with the settled result in a new goroutine once the [Future] settles.
func (f *Future[T]) Then(fn func(T, error)) {
	go func() {
		<-f.done
		fn(f.val, f.err)
	}()
}
