package frame

import "time"

// State is the lifecycle of a Coalescer.
type State int

const (
	Idle State = iota
	Pending
	Fired
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fired:
		return "fired"
	default:
		return "idle"
	}
}

// Coalescer keeps at most one frame request in flight. Scheduling while
// Pending replaces the action but keeps the existing handle, so N requests
// before the frame produce exactly one run of the latest action.
type Coalescer struct {
	sched  Scheduler
	handle Handle
	state  State
	action Callback
	fired  uint64
}

// NewCoalescer binds a coalescer to a scheduler.
func NewCoalescer(s Scheduler) *Coalescer {
	return &Coalescer{sched: s}
}

// Schedule arranges for action to run on the next frame. It reports
// whether a new frame was requested (false means an existing one was reused).
func (c *Coalescer) Schedule(action Callback) bool {
	c.action = action
	if c.state == Pending {
		return false
	}
	c.state = Pending
	c.handle = c.sched.Request(c.fire)
	return true
}

// Cancel drops a pending action. Safe to call in any state.
func (c *Coalescer) Cancel() {
	if c.state != Pending {
		return
	}
	c.sched.Cancel(c.handle)
	c.handle = 0
	c.action = nil
	c.state = Idle
}

// State returns the current lifecycle state.
func (c *Coalescer) State() State { return c.state }

// Fired returns how many coalesced actions have run.
func (c *Coalescer) Fired() uint64 { return c.fired }

func (c *Coalescer) fire(now time.Time) {
	action := c.action
	c.handle = 0
	c.action = nil
	c.state = Fired
	c.fired++
	if action != nil {
		action(now)
	}
}
