package session

import "fmt"

type State int

const (
	Idle State = iota
	Running
	Expired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Countdown is the clock-free part of the logout timer. Start shows the full
// duration, every Tick takes one unit off, and the tick that reaches zero
// reports expiry. It is not safe for concurrent use; Timer serialises access.
type Countdown struct {
	total     int
	remaining int
	state     State
}

func NewCountdown(total int) *Countdown {
	if total < 0 {
		total = 0
	}
	return &Countdown{total: total, remaining: total}
}

func (c *Countdown) Start() string {
	c.remaining = c.total
	c.state = Running
	return c.Display()
}

// Tick returns the new display and true exactly once, on the tick that
// reaches zero. Ticks outside the Running state change nothing.
func (c *Countdown) Tick() (string, bool) {
	if c.state != Running {
		return c.Display(), false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.state = Expired
		return c.Display(), true
	}
	return c.Display(), false
}

func (c *Countdown) Cancel() {
	if c.state == Running {
		c.state = Cancelled
	}
}

func (c *Countdown) Remaining() int { return c.remaining }
func (c *Countdown) State() State   { return c.state }
func (c *Countdown) Display() string {
	return FormatRemaining(c.remaining)
}

// FormatRemaining renders seconds as zero padded mm:ss.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
