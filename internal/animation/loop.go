package animation

import (
	"time"

	"chartengine/internal/frame"
	"chartengine/internal/state"
)

// PaintFunc draws one frame.
type PaintFunc func(s state.State)

// Loop repaints the interpolated state on every frame until stopped.
type Loop struct {
	sched   frame.Scheduler
	ip      *Interpolator
	paint   PaintFunc
	handle  frame.Handle
	running bool

	// OnFrame is called after every painted frame (optional).
	OnFrame func(now time.Time, animating bool)
}

// NewLoop binds a loop to a scheduler, an interpolator and a painter.
func NewLoop(sched frame.Scheduler, ip *Interpolator, paint PaintFunc) *Loop {
	return &Loop{sched: sched, ip: ip, paint: paint}
}

// Start requests the first frame. Calling it while running is a no-op.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.handle = l.sched.Request(l.tick)
}

// Stop cancels the pending frame. Idempotent.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.sched.Cancel(l.handle)
	l.handle = 0
}

func (l *Loop) tick(now time.Time) {
	if !l.running {
		return
	}
	if s, ok := l.ip.Frame(now); ok && l.paint != nil {
		l.paint(s)
		if l.OnFrame != nil {
			l.OnFrame(now, l.ip.Animating())
		}
	}
	l.handle = l.sched.Request(l.tick)
}
