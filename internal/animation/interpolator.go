package animation

import (
	"time"

	"chartengine/internal/state"
)

// DefaultDuration is the transition length between two targets.
const DefaultDuration = 200 * time.Millisecond

// Interpolator holds a frozen previous snapshot and a target snapshot and
// produces the blended state for any instant. Both snapshots are deep
// copies owned by the interpolator.
type Interpolator struct {
	duration  time.Duration
	prev      *state.State
	target    state.State
	hasTarget bool
	displayed *state.State
	start     time.Time
}

// NewInterpolator creates an interpolator; d <= 0 disables blending.
func NewInterpolator(d time.Duration) *Interpolator {
	return &Interpolator{duration: d}
}

// SetTarget starts a transition to next at now. The starting point is
// explicitPrev when given, otherwise whatever was last displayed, otherwise
// the previous target.
func (ip *Interpolator) SetTarget(next state.State, now time.Time, explicitPrev *state.State) {
	var from *state.State
	switch {
	case explicitPrev != nil:
		c := explicitPrev.Clone()
		from = &c
	case ip.displayed != nil:
		c := ip.displayed.Clone()
		from = &c
	case ip.hasTarget:
		c := ip.target.Clone()
		from = &c
	}
	ip.prev = from
	ip.target = next.Clone()
	ip.hasTarget = true
	ip.start = now
}

// Progress returns the transition progress in [0, 1].
func (ip *Interpolator) Progress(now time.Time) float64 {
	if ip.duration <= 0 {
		return 1
	}
	p := float64(now.Sub(ip.start)) / float64(ip.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Frame returns the state to paint at now, or false before any target is
// set. The result must be treated as read-only. Once progress reaches 1 the
// previous snapshot is released and the target is returned as is.
func (ip *Interpolator) Frame(now time.Time) (state.State, bool) {
	if !ip.hasTarget {
		return state.State{}, false
	}
	out := ip.target
	if ip.prev != nil {
		if p := ip.Progress(now); p >= 1 {
			ip.prev = nil
		} else {
			out = LerpState(*ip.prev, ip.target, p)
		}
	}
	ip.displayed = &out
	return out, true
}

// Animating reports whether a transition is in flight.
func (ip *Interpolator) Animating() bool { return ip.prev != nil }

// Displayed returns the last state produced by Frame.
func (ip *Interpolator) Displayed() (state.State, bool) {
	if ip.displayed == nil {
		return state.State{}, false
	}
	return *ip.displayed, true
}
