package queue

import (
	"context"
)

// ChannelQueue is an unbounded FIFO [Queue] that is consumed as a channel.
// It creates a worker goroutine to manage sending and receiving, so producers never block on a slow consumer.
//
// This is good for cases like:
//   - A single consumer goroutine that must process values one at a time, in the order they were pushed.
//   - Where a dynamically buffered channel is desired to prevent deadlocking on use.
//
// When the context is cancelled, values that were accepted but not yet received are still sent on C before it's closed.
type ChannelQueue[T any] struct {
	// C is the channel where queue values will be posted.
	C       <-chan T
	queue   *Queue[T]
	ctx     context.Context
	stop    context.CancelFunc
	recv    chan T
	disp    chan T
	stopped chan struct{}
}

// NewChannelQueue creates a new [ChannelQueue], and starts a goroutine to keep data flowing.
func NewChannelQueue[T any](ctx context.Context) *ChannelQueue[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	disp := make(chan T)
	cq := &ChannelQueue[T]{
		C:       disp,
		queue:   NewQueue[T](),
		ctx:     ctx,
		stop:    cancel,
		recv:    make(chan T),
		disp:    disp,
		stopped: make(chan struct{}),
	}
	go cq.worker()
	return cq
}

func (q *ChannelQueue[T]) worker() {
	defer close(q.stopped)
	defer close(q.disp)

	for {
		head, haveHead := q.queue.Peek()
		if haveHead {
			// Not empty, listen to both.
			select {
			case val := <-q.recv:
				q.queue.Push(val)
			case q.disp <- head:
				q.queue.Pop()
			case <-q.ctx.Done():
				q.flush()
				return
			}
			continue
		}
		// Empty, wait for push.
		select {
		case val := <-q.recv:
			q.queue.Push(val)
		case <-q.ctx.Done():
			q.flush()
			return
		}
	}
}

// flush picks up any producer that won the race with cancellation, then hands everything that was accepted to the consumer.
func (q *ChannelQueue[T]) flush() {
	for {
		select {
		case val := <-q.recv:
			q.queue.Push(val)
			continue
		default:
		}
		break
	}
	for val := range q.queue.Drain() {
		q.disp <- val
	}
}

// Stop will signal that the goroutine managing the ChannelQueue should clean up and stop operating.
// This is implicitly called when the given context is cancelled.
func (q *ChannelQueue[T]) Stop() {
	q.stop()
}

// AwaitStop will call [ChannelQueue.Stop] and wait for all operations to cease before returning.
// Remaining values must be received from C for this to return.
func (q *ChannelQueue[T]) AwaitStop() {
	q.Stop()
	q.Await()
}

// Await will wait for all [ChannelQueue] operations to cease before returning.
func (q *ChannelQueue[T]) Await() {
	<-q.stopped
}

// Len gets the number of values accepted but not yet received from C.
func (q *ChannelQueue[T]) Len() int {
	return q.queue.Len()
}

// Push will push an item to the tail of the ChannelQueue.
// False is returned if the ChannelQueue is stopping, and the value was not accepted.
func (q *ChannelQueue[T]) Push(val T) bool {
	select {
	case <-q.ctx.Done():
		return false
	default:
	}
	select {
	case <-q.ctx.Done():
		return false
	case q.recv <- val:
		return true
	}
}
