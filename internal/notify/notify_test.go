package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualScheduler struct {
	mu   sync.Mutex
	jobs []func()
	ds   []time.Duration
}

func (m *manualScheduler) After(d time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.jobs)
	m.jobs = append(m.jobs, fn)
	m.ds = append(m.ds, d)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.jobs[i] = nil
	}
}

func (m *manualScheduler) fireAll() {
	m.mu.Lock()
	jobs := m.jobs
	m.jobs = nil
	m.ds = nil
	m.mu.Unlock()
	for _, fn := range jobs {
		if fn != nil {
			fn()
		}
	}
}

func TestPushAndAutoDismiss(t *testing.T) {
	sched := &manualScheduler{}
	n := New(sched)

	id := n.Push(Success, "saved")
	require.Len(t, n.Active(), 1)
	assert.Equal(t, id, n.Active()[0].ID)
	assert.Equal(t, dismissAfter[Success], sched.ds[0])

	sched.fireAll()
	assert.Empty(t, n.Active(), "auto-dismiss clears the toast")
}

func TestDismissByID(t *testing.T) {
	sched := &manualScheduler{}
	n := New(sched)
	id1 := n.Push(Info, "one")
	n.Push(Warning, "two")

	n.Dismiss(id1)
	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "two", active[0].Message)
}

func TestPushAfterDelaysDisplay(t *testing.T) {
	sched := &manualScheduler{}
	n := New(sched)

	n.PushAfter(400*time.Millisecond, Success, "later")
	assert.Empty(t, n.Active(), "nothing shown before the delay")

	sched.fireAll()
	require.Len(t, n.Active(), 1)
	assert.Equal(t, "later", n.Active()[0].Message)
}

func TestPushAfterCancel(t *testing.T) {
	sched := &manualScheduler{}
	n := New(sched)

	cancel := n.PushAfter(time.Second, Success, "never")
	cancel()
	sched.fireAll()
	assert.Empty(t, n.Active())
}

// inlineScheduler runs callbacks immediately, before After returns.
type inlineScheduler struct{}

func (inlineScheduler) After(_ time.Duration, fn func()) func() {
	fn()
	return func() {}
}

func TestPushWithInlineSchedulerLeavesNoState(t *testing.T) {
	n := New(inlineScheduler{})

	n.Push(Success, "gone already")
	assert.Empty(t, n.Active(), "toast dismissed before Push returned")

	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Empty(t, n.cancels, "no stale cancel left for a dismissed toast")
}

func TestIDsAreMonotonic(t *testing.T) {
	n := New(&manualScheduler{})
	a := n.Push(Info, "a")
	b := n.Push(Info, "b")
	assert.Greater(t, b, a)
}
