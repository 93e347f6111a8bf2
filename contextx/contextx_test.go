package contextx

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestIsDone(t *testing.T) {
	assert.False(t, IsDone(nil))
	ctx, cancel := context.WithCancel(context.Background())
	assert.False(t, IsDone(ctx))
	cancel()
	assert.True(t, IsDone(ctx))
}

func TestJoin(t *testing.T) {
	bg := context.Background()

	ctx, cancel := context.WithCancel(bg)
	aCancelled, release := Join(ctx, bg)
	defer release()
	cancel()
	assert.True(t, IsDone(aCancelled), "Joint context should have been cancelled")
	assert.ErrorIs(t, aCancelled.Err(), context.Canceled)

	ctx, cancel = context.WithCancel(bg)
	bCancelled, release := Join(bg, ctx)
	defer release()
	assert.False(t, IsDone(bCancelled), "Joint context should NOT have been cancelled")
	cancel()
	select {
	case <-time.After(time.Second):
		t.Error("Should have been cancelled by b")
	case <-bCancelled.Done():
	}
	assert.ErrorIs(t, bCancelled.Err(), context.Canceled)
}

func TestJoin_Cause(t *testing.T) {
	errStopped := errors.New("stopped")
	b, cancelB := context.WithCancelCause(context.Background())
	joined, release := Join(context.Background(), b)
	defer release()
	cancelB(errStopped)
	<-joined.Done()
	assert.ErrorIs(t, context.Cause(joined), errStopped)
}

func TestJoin_Release(t *testing.T) {
	b, cancelB := context.WithCancel(context.Background())
	defer cancelB()
	joined, release := Join(context.Background(), b)
	release()
	assert.True(t, IsDone(joined), "Releasing should cancel the joint context")
	assert.False(t, IsDone(b), "Releasing should not affect b")
}
