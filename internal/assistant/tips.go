package assistant

import (
	"sync"
	"time"
)

// TipScheduler fires a callback after a quiet period with no visitor
// activity. At most one timer is live per scheduler: Reset restarts the
// countdown instead of stacking a second timer. After firing the
// countdown re-arms, so an idle session keeps receiving tips until the
// connection closes.
type TipScheduler struct {
	interval time.Duration
	fire     func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewTipScheduler creates a scheduler. The timer is not armed until the
// first Reset. fire runs on the timer goroutine.
func NewTipScheduler(interval time.Duration, fire func()) *TipScheduler {
	return &TipScheduler{interval: interval, fire: fire}
}

// Reset cancels any pending countdown and starts a fresh one.
func (t *TipScheduler) Reset() {
	if t == nil || t.interval <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.interval, t.fired)
}

func (t *TipScheduler) fired() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.timer = time.AfterFunc(t.interval, t.fired)
	t.mu.Unlock()

	t.fire()
}

// Stop cancels the countdown for good. Safe to call more than once.
func (t *TipScheduler) Stop() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
