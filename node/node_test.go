package node

import (
	"bytes"
	"github.com/saylorsolutions/eventnode/clock"
	"github.com/saylorsolutions/eventnode/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const testTimeout = time.Second

func testNode(t *testing.T, opts ...Option) (*Node, *clock.Mock) {
	t.Helper()
	mock := clock.NewMock(testEpoch)
	n := New(append([]Option{WithName(t.Name()), WithClock(mock)}, opts...)...)
	t.Cleanup(n.Destroy)
	return n, mock
}

// recorder collects payloads passed to a listener.
type recorder struct {
	payloads []any
}

func (r *recorder) listener(evt dispatch.Event) {
	r.payloads = append(r.payloads, evt.Payload)
}

func TestNode_Listen(t *testing.T) {
	n, _ := testNode(t)
	var rec recorder
	h := n.Listen("x", rec.listener)
	assert.Equal(t, []dispatch.Handle{h}, n.Listeners("x"))

	n.Dispatch("x", 1)
	n.Dispatch("y", 2)
	n.Dispatch("x", nil)
	assert.Equal(t, []any{1, nil}, rec.payloads)

	n.Remove("x", h)
	n.Dispatch("x", 3)
	assert.Len(t, rec.payloads, 2, "Removed listener should not be called")
	assert.Empty(t, n.Listeners("x"))
}

func TestNode_Remove_Unknown(t *testing.T) {
	n, _ := testNode(t)
	assert.NotPanics(t, func() {
		n.Remove("never", dispatch.NewHandle())
	})
	_, ok := n.listeners["never"]
	assert.True(t, ok, "Removing from an unknown type should create an empty registry entry")
	assert.Empty(t, n.Listeners("never"))
}

func TestNode_Listen_OnceOption(t *testing.T) {
	n, _ := testNode(t)
	var rec recorder
	n.Listen("x", rec.listener, dispatch.Once())
	assert.Len(t, n.Listeners("x"), 1)
	n.Dispatch("x", 1)
	n.Dispatch("x", 2)
	assert.Equal(t, []any{1}, rec.payloads)
	assert.Empty(t, n.Listeners("x"), "Registry should drop once listeners when they fire")
}

func TestNode_Destroy(t *testing.T) {
	n, _ := testNode(t)
	var rec recorder
	n.Listen("a", rec.listener)
	n.Listen("b", rec.listener)
	n.ListenOnce("c", rec.listener)
	n.EnableBubble("a")

	n.Destroy()
	assert.True(t, n.Destroyed())
	n.Dispatch("a", 1)
	n.Dispatch("b", 2)
	n.Dispatch("c", 3)
	assert.Empty(t, rec.payloads, "No listener should survive Destroy")
	assert.Equal(t, 0, n.target.Len("a"))
	assert.False(t, n.Bubbling("a"))
	assert.Empty(t, n.Listeners("a"))

	assert.NotPanics(t, n.Destroy, "Destroy should be idempotent")
}

func TestNode_State(t *testing.T) {
	n, _ := testNode(t)
	assert.Nil(t, n.State())
	n.SetState("busy")
	assert.Equal(t, "busy", n.State())
	assert.Panics(t, func() {
		n.SetState([]string{"not", "comparable"})
	})
}

func TestNode_Child(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	root, mock := testNode(t, WithName("root"), WithLogger(log), WithDebounceDefaults(Timeout(time.Second)))
	child := root.Child("child")
	t.Cleanup(child.Destroy)

	assert.Equal(t, "root/child", child.Name())
	assert.Same(t, root, child.Parent())
	assert.Same(t, mock, child.clock)
	assert.Equal(t, time.Second, child.debounce.Timeout)

	child.EnableBubble("x")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	last := lines[len(lines)-1]
	assert.Contains(t, last, "Bubbling enabled")
	assert.Equal(t, 1, strings.Count(last, "node="), "Node attribute should not be repeated for children")
	assert.Contains(t, last, "node=root/child")

	child.SetParent(nil)
	assert.Nil(t, child.Parent())

	assert.Panics(t, func() {
		root.Child("")
	})
}

func TestNew_InvalidDebounceDefaults(t *testing.T) {
	assert.Panics(t, func() {
		New(WithDebounceDefaults(Mode("middle")))
	})
}

func TestNew_EnvDebounceDefaults(t *testing.T) {
	t.Setenv(EnvDebounceTimeout, "250")
	t.Setenv(EnvDebounceMode, "FIRST")
	n, _ := testNode(t)
	require.Equal(t, DebounceOptions{Timeout: 250 * time.Millisecond, Mode: ModeFirst}, n.debounce)

	n, _ = testNode(t, WithDebounceDefaults(Mode(ModeLast)))
	assert.Equal(t, DebounceOptions{Timeout: 250 * time.Millisecond, Mode: ModeLast}, n.debounce, "Options should win over the environment")
}
