package session

import (
	"sync"
	"time"
)

type Hooks struct {
	OnTick   func(display string)
	OnExpire func()
}

// Timer drives a Countdown from a single ticker goroutine. OnTick runs with
// the timer locked and must not call back into the timer. OnExpire runs
// after the lock is released.
type Timer struct {
	mu        sync.Mutex
	ticks     int
	interval  time.Duration
	hooks     Hooks
	countdown *Countdown
	stop      chan struct{}
	gen       uint64
}

func NewTimer(ticks int, interval time.Duration, hooks Hooks) *Timer {
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		ticks:     ticks,
		interval:  interval,
		hooks:     hooks,
		countdown: NewCountdown(ticks),
	}
}

// Start begins a countdown unless one is already running.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.countdown.State() == Running {
		return false
	}
	t.restartLocked()
	return true
}

// Reset stops whatever countdown is running and starts a full one. A timer
// that was cancelled or has expired stays down and Reset reports false.
func (t *Timer) Reset() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.countdown.State() {
	case Cancelled, Expired:
		return false
	}
	t.restartLocked()
	return true
}

func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.countdown.Cancel()
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countdown.State()
}

func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countdown.Remaining()
}

func (t *Timer) Display() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.countdown.Display()
}

func (t *Timer) Duration() time.Duration {
	return time.Duration(t.ticks) * t.interval
}

func (t *Timer) restartLocked() {
	t.stopLocked()

	t.countdown = NewCountdown(t.ticks)
	display := t.countdown.Start()

	stop := make(chan struct{})
	t.stop = stop
	go t.run(t.gen, stop)

	if t.hooks.OnTick != nil {
		t.hooks.OnTick(display)
	}
}

func (t *Timer) stopLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.gen++
}

func (t *Timer) run(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if expired := t.tick(gen); expired {
				if t.hooks.OnExpire != nil {
					t.hooks.OnExpire()
				}
				return
			}
		}
	}
}

// tick advances the countdown if gen still owns it.
func (t *Timer) tick(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen || t.countdown.State() != Running {
		return false
	}

	display, expired := t.countdown.Tick()
	if t.hooks.OnTick != nil {
		t.hooks.OnTick(display)
	}
	if expired {
		t.stop = nil
		t.gen++
	}
	return expired
}
