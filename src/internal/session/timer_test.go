package session

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tickRecorder struct {
	mu       sync.Mutex
	displays []string
	expiries atomic.Int32
}

func (r *tickRecorder) hooks() Hooks {
	return Hooks{
		OnTick: func(display string) {
			r.mu.Lock()
			r.displays = append(r.displays, display)
			r.mu.Unlock()
		},
		OnExpire: func() { r.expiries.Add(1) },
	}
}

func (r *tickRecorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.displays...)
}

func TestTimerExpiresExactlyOnce(t *testing.T) {
	rec := &tickRecorder{}
	timer := NewTimer(3, 5*time.Millisecond, rec.hooks())

	require.True(t, timer.Start())

	require.Eventually(t, func() bool { return timer.State() == Expired }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, int32(1), rec.expiries.Load())
	assert.Equal(t, []string{"00:03", "00:02", "00:01", "00:00"}, rec.seen())
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimerStartWhileRunningIsNoop(t *testing.T) {
	timer := NewTimer(100, time.Hour, Hooks{})
	defer timer.Cancel()

	require.True(t, timer.Start())
	assert.False(t, timer.Start())
	assert.Equal(t, Running, timer.State())
}

func TestTimerResetRestartsFullDuration(t *testing.T) {
	rec := &tickRecorder{}
	timer := NewTimer(4, 10*time.Millisecond, rec.hooks())
	defer timer.Cancel()

	timer.Start()
	require.Eventually(t, func() bool { return timer.Remaining() <= 2 }, time.Second, time.Millisecond)

	assert.True(t, timer.Reset())

	assert.Equal(t, Running, timer.State())
	assert.GreaterOrEqual(t, timer.Remaining(), 3)
}

func TestTimerRepeatedResetKeepsSingleCountdown(t *testing.T) {
	rec := &tickRecorder{}
	timer := NewTimer(5, 5*time.Millisecond, rec.hooks())

	timer.Start()
	for i := 0; i < 20; i++ {
		timer.Reset()
	}

	require.Eventually(t, func() bool { return timer.State() == Expired }, time.Second, time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, int32(1), rec.expiries.Load())

	// after the last reset the displays count down one step at a time
	seen := rec.seen()
	tail := seen[len(seen)-6:]
	assert.Equal(t, []string{"00:05", "00:04", "00:03", "00:02", "00:01", "00:00"}, tail)
}

func TestTimerCancelPreventsExpiry(t *testing.T) {
	rec := &tickRecorder{}
	timer := NewTimer(2, 5*time.Millisecond, rec.hooks())

	timer.Start()
	timer.Cancel()
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, Cancelled, timer.State())
	assert.Equal(t, int32(0), rec.expiries.Load())
	assert.Equal(t, 2, timer.Remaining())
}

func TestTimerDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, NewTimer(300, time.Second, Hooks{}).Duration())
}

func TestTimerResetDoesNotReviveFinishedCountdown(t *testing.T) {
	cancelled := NewTimer(5, time.Hour, Hooks{})
	cancelled.Start()
	cancelled.Cancel()

	assert.False(t, cancelled.Reset())
	assert.Equal(t, Cancelled, cancelled.State())

	expired := NewTimer(1, 5*time.Millisecond, Hooks{})
	expired.Start()
	require.Eventually(t, func() bool { return expired.State() == Expired }, time.Second, time.Millisecond)

	assert.False(t, expired.Reset())
	assert.Equal(t, Expired, expired.State())
}
