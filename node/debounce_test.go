package node

import (
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

type timedCall struct {
	at      time.Duration
	payload any
}

func timedListener(n *Node, calls *[]timedCall) dispatch.Listener {
	return func(evt dispatch.Event) {
		*calls = append(*calls, timedCall{at: n.clock.Now().Sub(testEpoch), payload: evt.Payload})
	}
}

func TestNode_ListenDebounceFirst(t *testing.T) {
	n, mock := testNode(t)
	var calls []timedCall
	n.ListenDebounceFirst("x", timedListener(n, &calls), 100*time.Millisecond)

	n.Dispatch("x", 0)
	mock.Advance(30 * time.Millisecond)
	n.Dispatch("x", 30)
	mock.Advance(120 * time.Millisecond)
	n.Dispatch("x", 150)

	assert.Equal(t, []timedCall{
		{at: 0, payload: 0},
		{at: 150 * time.Millisecond, payload: 150},
	}, calls)
}

func TestNode_ListenDebounceFirst_WindowResets(t *testing.T) {
	n, mock := testNode(t)
	var calls []timedCall
	n.ListenDebounceFirst("x", timedListener(n, &calls), 100*time.Millisecond)

	for i := 0; i < 5; i++ {
		n.Dispatch("x", i)
		mock.Advance(60 * time.Millisecond)
	}
	assert.Len(t, calls, 1, "Suppressed events should still restart the window")
}

func TestNode_ListenDebounceLast(t *testing.T) {
	n, mock := testNode(t)
	var calls []timedCall
	n.ListenDebounceLast("x", timedListener(n, &calls), 100*time.Millisecond)

	n.Dispatch("x", 0)
	mock.Advance(30 * time.Millisecond)
	n.Dispatch("x", 30)
	mock.Advance(30 * time.Millisecond)
	n.Dispatch("x", 60)
	assert.Equal(t, 1, mock.Pending(), "Earlier timers should be cancelled")

	mock.Advance(99 * time.Millisecond)
	assert.Empty(t, calls)
	mock.Advance(time.Millisecond)
	require.Len(t, calls, 1)
	assert.Equal(t, timedCall{at: 160 * time.Millisecond, payload: 60}, calls[0])

	mock.Advance(time.Second)
	assert.Len(t, calls, 1)
}

func TestNode_ListenDebounceLast_Destroyed(t *testing.T) {
	n, mock := testNode(t)
	var calls []timedCall
	n.ListenDebounceLast("x", timedListener(n, &calls), 100*time.Millisecond)
	n.Dispatch("x", 0)
	n.Destroy()
	mock.Advance(time.Second)
	assert.Empty(t, calls, "Pending calls should be dropped when the node is destroyed")
}

func TestNode_ListenDebounce(t *testing.T) {
	n, mock := testNode(t)
	var first, last []timedCall

	_, err := n.ListenDebounce("x", timedListener(n, &first), Mode(ModeFirst), Timeout(50*time.Millisecond))
	require.NoError(t, err)
	_, err = n.ListenDebounce("x", timedListener(n, &last))
	require.NoError(t, err)

	n.Dispatch("x", 1)
	mock.Advance(10 * time.Millisecond)
	n.Dispatch("x", 2)
	mock.Advance(DefaultDebounce.Timeout)

	assert.Equal(t, []timedCall{{at: 0, payload: 1}}, first)
	assert.Equal(t, []timedCall{{at: 10*time.Millisecond + DefaultDebounce.Timeout, payload: 2}}, last, "Default mode should be last")
}

func TestNode_ListenDebounce_Invalid(t *testing.T) {
	n, _ := testNode(t)
	h, err := n.ListenDebounce("x", func(dispatch.Event) {}, Mode("middle"), Timeout(-time.Second))
	assert.ErrorIs(t, err, ErrInvalidDebounce)
	assert.ErrorContains(t, err, "unknown mode 'middle'")
	assert.ErrorContains(t, err, "is negative")
	assert.Empty(t, h)
	assert.Empty(t, n.Listeners("x"))
}
