// Package notify keeps the in-memory toast queue: timed messages with
// per-level auto-dismiss, decoupled from any UI loop through a Scheduler.
package notify

import (
	"sync"
	"time"
)

type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// dismissAfter holds the fixed display duration per level.
var dismissAfter = map[Level]time.Duration{
	Success: 3 * time.Second,
	Info:    4 * time.Second,
	Warning: 5 * time.Second,
	Error:   6 * time.Second,
}

type Notification struct {
	ID      int       `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Scheduler abstracts delayed execution so tests can drive timers by hand.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// TimerScheduler is the production scheduler over time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Notifier is the process-wide toast list. Push enqueues and arms the
// auto-dismiss timer; Active returns what is currently displayed.
type Notifier struct {
	mu      sync.Mutex
	nextID  int
	active  []Notification
	sched   Scheduler
	cancels map[int]func()
}

func New(sched Scheduler) *Notifier {
	if sched == nil {
		sched = TimerScheduler{}
	}
	return &Notifier{sched: sched, cancels: map[int]func(){}}
}

func (n *Notifier) Push(level Level, message string) int {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.active = append(n.active, Notification{ID: id, Level: level, Message: message, At: time.Now()})
	n.mu.Unlock()
	d, ok := dismissAfter[level]
	if !ok {
		d = dismissAfter[Info]
	}
	cancel := n.sched.After(d, func() { n.Dismiss(id) })
	n.mu.Lock()
	// A synchronous scheduler may have dismissed the toast before the
	// cancel func was recorded; don't leave a stale entry behind.
	if n.displayed(id) {
		n.cancels[id] = cancel
	} else if cancel != nil {
		cancel()
	}
	n.mu.Unlock()
	return id
}

// displayed reports whether id is still active. Callers hold mu.
func (n *Notifier) displayed(id int) bool {
	for _, notif := range n.active {
		if notif.ID == id {
			return true
		}
	}
	return false
}

// PushAfter schedules a toast to appear after d; used for the restock
// stagger cadence. The returned cancel drops the pending toast.
func (n *Notifier) PushAfter(d time.Duration, level Level, message string) (cancel func()) {
	return n.sched.After(d, func() { n.Push(level, message) })
}

func (n *Notifier) Dismiss(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, notif := range n.active {
		if notif.ID == id {
			n.active = append(n.active[:i], n.active[i+1:]...)
			break
		}
	}
	if cancel, ok := n.cancels[id]; ok {
		delete(n.cancels, id)
		if cancel != nil {
			cancel()
		}
	}
}

// Active returns a copy of the currently displayed notifications.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.active))
	copy(out, n.active)
	return out
}
