package queue

import (
	"iter"
	"sync"
)

// Queue is a concurrency-safe FIFO queue implementation.
type Queue[T any] struct {
	mux    sync.RWMutex
	values []T
}

func NewQueue[T any](initialBuffer ...int) *Queue[T] {
	if len(initialBuffer) > 0 {
		return &Queue[T]{values: make([]T, 0, initialBuffer[0])}
	}
	return &Queue[T]{}
}

// Len gets the length of the Queue
func (q *Queue[T]) Len() int {
	q.mux.RLock()
	defer q.mux.RUnlock()
	return len(q.values)
}

// Push will push an item to the tail of the Queue.
func (q *Queue[T]) Push(val T) {
	q.mux.Lock()
	defer q.mux.Unlock()
	q.values = append(q.values, val)
}

// Peek returns the head of the Queue without removing it.
// False will be returned if the Queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	q.mux.RLock()
	defer q.mux.RUnlock()
	if len(q.values) == 0 {
		var mt T
		return mt, false
	}
	return q.values[0], true
}

// Pop will pop an item from the head of the Queue.
// False will be returned if the Queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	q.mux.Lock()
	defer q.mux.Unlock()
	if len(q.values) == 0 {
		var mt T
		return mt, false
	}
	val := q.values[0]
	var mt T
	// Release the reference held by the backing array.
	q.values[0] = mt
	q.values = q.values[1:]
	return val, true
}

// Drain pops every remaining element in FIFO order.
func (q *Queue[T]) Drain() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			val, ok := q.Pop()
			if !ok {
				return
			}
			if !yield(val) {
				return
			}
		}
	}
}
