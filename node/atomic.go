package node

import (
	"context"
	"fmt"
	"github.com/saylorsolutions/eventnode/contextx"
	"github.com/saylorsolutions/eventnode/structures/queue"
	"github.com/saylorsolutions/eventnode/syncx"
	"log/slog"
	"time"
)

// Operation is asynchronous work serialized by [Node.Atomic].
// The context is cancelled if the submitting context is done or the [Node] is destroyed while the Operation runs.
type Operation func(ctx context.Context) (any, error)

type atomicTask struct {
	ctx    context.Context
	op     Operation
	result *syncx.Future[any]
}

type atomicQueue struct {
	key   string
	tasks *queue.ChannelQueue[*atomicTask]
}

// Atomic queues op to run after every operation previously submitted with the same key on this [Node] has settled.
// Operations with the same key never run concurrently, and start in submission order.
// Different keys don't affect each other.
//
// The returned [syncx.Future] settles with the outcome of op once it has run.
// A failing or panicking op only affects its own [syncx.Future], and the queue moves on to the next operation.
// If ctx is already done when its turn comes, op is skipped and the [syncx.Future] is rejected with the context's error.
func (n *Node) Atomic(ctx context.Context, key string, op Operation) *syncx.Future[any] {
	if ctx == nil {
		ctx = context.Background()
	}
	if op == nil {
		return syncx.Rejected[any](ErrNilOperation)
	}
	q, err := n.atomicQueue(key)
	if err != nil {
		return syncx.Rejected[any](err)
	}
	task := &atomicTask{
		ctx:    ctx,
		op:     op,
		result: syncx.NewFuture[any](),
	}
	n.metrics.recordSubmit(ctx, n.name, key)
	if !q.tasks.Push(task) {
		task.result.Reject(ErrDestroyed)
	}
	return task.result
}

// AtomicT is a typed wrapper around [Node.Atomic].
func AtomicT[T any](ctx context.Context, n *Node, key string, op func(ctx context.Context) (T, error)) *syncx.Future[T] {
	if op == nil {
		return syncx.Rejected[T](ErrNilOperation)
	}
	typed := syncx.NewFuture[T]()
	n.Atomic(ctx, key, func(ctx context.Context) (any, error) {
		return op(ctx)
	}).Then(func(val any, err error) {
		tval, _ := val.(T)
		typed.Settle(tval, err)
	})
	return typed
}

// QueueLen returns the number of operations waiting for key, including one that's waiting to be picked up.
func (n *Node) QueueLen(key string) int {
	q := syncx.LockFuncT(&n.mux, func() *atomicQueue {
		return n.queues[key]
	})
	if q == nil {
		return 0
	}
	return q.tasks.Len()
}

func (n *Node) atomicQueue(key string) (*atomicQueue, error) {
	return syncx.LockFuncTErr(&n.mux, func() (*atomicQueue, error) {
		if n.Destroyed() {
			return nil, ErrDestroyed
		}
		q, ok := n.queues[key]
		if !ok {
			q = &atomicQueue{
				key:   key,
				tasks: queue.NewChannelQueue[*atomicTask](n.ctx),
			}
			n.queues[key] = q
			go n.drain(q)
		}
		return q, nil
	})
}

// drain runs for as long as the node lives, and is the only consumer of the queue.
func (n *Node) drain(q *atomicQueue) {
	log := n.log.With(slog.String("key", q.key))
	log.Debug("Atomic worker started")
	defer log.Debug("Atomic worker stopped")
	for task := range q.tasks.C {
		n.run(log, q.key, task)
	}
}

func (n *Node) run(log *slog.Logger, key string, task *atomicTask) {
	if n.Destroyed() {
		task.result.Reject(ErrDestroyed)
		return
	}
	if err := task.ctx.Err(); err != nil {
		log.Debug("Skipping atomic operation, context is done", slog.String("error", err.Error()))
		task.result.Reject(err)
		return
	}
	ctx, release := contextx.Join(task.ctx, n.ctx)
	defer release()

	start := time.Now()
	val, err := invoke(ctx, task.op)
	n.metrics.recordComplete(task.ctx, n.name, key, time.Since(start), err)
	if err != nil {
		log.Debug("Atomic operation failed", slog.String("error", err.Error()))
	}
	task.result.Settle(val, err)
}

func invoke(ctx context.Context, op Operation) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val = nil
			err = fmt.Errorf("%w: %v", ErrOperationPanic, r)
		}
	}()
	return op(ctx)
}
