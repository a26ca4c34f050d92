package cart

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/diewo77/pos-app/internal/notify"
	"github.com/diewo77/pos-app/internal/state"
)

// confirmDelay stands in for a real commit round-trip; no order record is
// written anywhere yet.
const confirmDelay = 1200 * time.Millisecond

// Checkout finalizes a processed sale from the confirmation screen.
type Checkout struct {
	store    state.Store
	notifier *notify.Notifier
	sched    notify.Scheduler
}

func NewCheckout(store state.Store, notifier *notify.Notifier, sched notify.Scheduler) *Checkout {
	if sched == nil {
		sched = notify.TimerScheduler{}
	}
	return &Checkout{store: store, notifier: notifier, sched: sched}
}

// PendingSale reloads the snapshot ProcessSale stored, so the
// confirmation screen re-displays the computed totals.
func (ck *Checkout) PendingSale(ctx context.Context) (PendingSale, bool) {
	var sale PendingSale
	found, err := ck.store.Get(ctx, state.KeyPendingSale, &sale)
	if err != nil || !found {
		return PendingSale{}, false
	}
	return sale, true
}

// Confirm runs the simulated commit: after the fixed delay the draft is
// cleared and a success toast announces the total. The done callback, if
// any, fires after cleanup. The simulated commit cannot fail. Cleanup runs
// on a background context: the caller's context may be gone by the time
// the delay elapses.
func (ck *Checkout) Confirm(sale PendingSale, done func()) {
	ck.sched.After(confirmDelay, func() {
		if err := ck.store.Delete(context.Background(), state.KeyPendingSale); err != nil {
			log.Printf("checkout: clear pending sale: %v", err)
		}
		ck.notifier.Push(notify.Success, fmt.Sprintf("Sale %s completed: %.2f", sale.Reference, sale.Total))
		if done != nil {
			done()
		}
	})
}
