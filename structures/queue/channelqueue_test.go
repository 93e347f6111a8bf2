package queue

import (
	"context"
	"github.com/stretchr/testify/assert"
	"sync"
	"testing"
	"time"
)

func TestNewChannelQueue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cq := NewChannelQueue[int](ctx)

	var (
		sum      int
		expected int
		wg       sync.WaitGroup
		start    = time.Now()
		done     = make(chan struct{})
	)
	wg.Add(10)

	for i := 0; i < 10; i++ {
		expected += i + 1
		go func() {
			defer wg.Done()
			assert.True(t, cq.Push(i+1))
		}()
	}
	go func() {
		defer close(done)
		for val := range cq.C {
			sum += val
		}
	}()
	wg.Wait()
	cq.AwaitStop()
	<-done
	t.Log("Duration:", time.Since(start))
	assert.Equal(t, 0, cq.Len())
	assert.Equal(t, expected, sum)
	assert.False(t, cq.Push(11), "Stopped queue should reject values")
}

func TestChannelQueue_FIFO(t *testing.T) {
	cq := NewChannelQueue[int](context.Background())
	for i := 0; i < 100; i++ {
		assert.True(t, cq.Push(i))
	}
	for i := 0; i < 100; i++ {
		select {
		case val := <-cq.C:
			assert.Equal(t, i, val)
		case <-time.After(time.Second):
			t.Fatal("Timed out waiting for value", i)
		}
	}
	cq.Stop()
	cq.Await()
	_, more := <-cq.C
	assert.False(t, more, "Channel should be closed after stopping")
}

func TestChannelQueue_FlushOnStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cq := NewChannelQueue[string](ctx)
	assert.True(t, cq.Push("a"))
	assert.True(t, cq.Push("b"))
	cancel()

	var got []string
	for val := range cq.C {
		got = append(got, val)
	}
	cq.Await()
	assert.Equal(t, []string{"a", "b"}, got, "Accepted values should still be delivered after cancellation")
}
