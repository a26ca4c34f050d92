package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/pos-app/internal/notify"
	"github.com/diewo77/pos-app/internal/state"
)

// manualScheduler collects scheduled callbacks so tests fire them by hand.
type manualScheduler struct {
	mu   sync.Mutex
	jobs []func()
}

func (m *manualScheduler) After(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.jobs)
	m.jobs = append(m.jobs, fn)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.jobs[i] = nil
	}
}

func (m *manualScheduler) fire() {
	m.mu.Lock()
	jobs := m.jobs
	m.jobs = nil
	m.mu.Unlock()
	for _, fn := range jobs {
		if fn != nil {
			fn()
		}
	}
}

func TestCheckoutConfirm(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	sched := &manualScheduler{}
	notifier := notify.New(sched)

	c := New(store)
	c.Add(ctx, product("a", 100, 10))
	c.SetDiscountPercent(ctx, 10)
	sale := c.ProcessSale(ctx)

	ck := NewCheckout(store, notifier, sched)
	reloaded, ok := ck.PendingSale(ctx)
	require.True(t, ok, "confirmation screen reloads the snapshot")
	assert.InDelta(t, sale.Total, reloaded.Total, 1e-9)

	var doneCalled bool
	ck.Confirm(reloaded, func() { doneCalled = true })
	// nothing happens until the simulated delay elapses
	_, stillThere := ck.PendingSale(ctx)
	assert.True(t, stillThere)

	sched.fire()
	assert.True(t, doneCalled)
	_, gone := ck.PendingSale(ctx)
	assert.False(t, gone, "draft cleared after the simulated commit")

	toasts := notifier.Active()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.Success, toasts[0].Level)
}

// deadlineStore fails any operation whose context is already done, the way
// the redis client would.
type deadlineStore struct{ state.Store }

func (s deadlineStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, key)
}

func TestCheckoutConfirmOutlivesCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	base := state.NewMemoryStore()
	sched := &manualScheduler{}
	notifier := notify.New(sched)

	c := New(base)
	c.Add(ctx, product("a", 100, 10))
	c.ProcessSale(ctx)

	ck := NewCheckout(deadlineStore{base}, notifier, sched)
	sale, ok := ck.PendingSale(ctx)
	require.True(t, ok)

	ck.Confirm(sale, nil)
	// the screen's context is gone before the delay elapses
	cancel()
	sched.fire()

	_, stillThere := ck.PendingSale(context.Background())
	assert.False(t, stillThere, "cleanup runs even after the caller's context is cancelled")
}
