package clock

import (
	"slices"
	"sync"
	"time"
)

var _ Clock = (*Mock)(nil)

// Mock is a [Clock] whose time only changes with [Mock.Advance] or [Mock.Set].
// Timers that come due fire synchronously on the goroutine moving the clock, in due order, with ties broken by scheduling order.
type Mock struct {
	mux    sync.Mutex
	now    time.Time
	seq    uint64
	timers []*mockTimer
}

type mockTimer struct {
	mock *Mock
	due  time.Time
	seq  uint64
	fn   func()
}

// NewMock creates a [Mock] starting at the given time.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mux.Lock()
	defer m.mux.Unlock()
	return m.now
}

func (m *Mock) AfterFunc(d time.Duration, fn func()) Timer {
	m.mux.Lock()
	defer m.mux.Unlock()
	if d < 0 {
		d = 0
	}
	m.seq++
	t := &mockTimer{mock: m, due: m.now.Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Mock) Pending() int {
	m.mux.Lock()
	defer m.mux.Unlock()
	return len(m.timers)
}

// Advance moves the clock forward by d, firing every timer that comes due along the way.
// The clock reads each timer's due time while its callback runs, so callbacks may schedule further timers that also fire if they fall within d.
func (m *Mock) Advance(d time.Duration) {
	m.mux.Lock()
	target := m.now.Add(d)
	m.mux.Unlock()
	m.Set(target)
}

// Set moves the clock to t, firing due timers as [Mock.Advance] does.
// Moving backward only changes the reported time.
func (m *Mock) Set(t time.Time) {
	for {
		m.mux.Lock()
		next := m.nextDue(t)
		if next == nil {
			m.now = t
			m.mux.Unlock()
			return
		}
		m.remove(next)
		if next.due.After(m.now) {
			m.now = next.due
		}
		m.mux.Unlock()
		next.fn()
	}
}

// nextDue must be called with the lock held.
func (m *Mock) nextDue(limit time.Time) *mockTimer {
	var next *mockTimer
	for _, t := range m.timers {
		if t.due.After(limit) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

// remove must be called with the lock held.
func (m *Mock) remove(t *mockTimer) bool {
	idx := slices.Index(m.timers, t)
	if idx < 0 {
		return false
	}
	m.timers = slices.Delete(m.timers, idx, idx+1)
	return true
}

func (t *mockTimer) Stop() bool {
	t.mock.mux.Lock()
	defer t.mock.mux.Unlock()
	return t.mock.remove(t)
}
