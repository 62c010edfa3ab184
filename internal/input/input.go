// Package input turns pointer, wheel and touch events into chart state changes.
package input

import (
	"math"

	"chartengine/internal/autoscroll"
	"chartengine/internal/drawing"
	"chartengine/internal/layout"
	"chartengine/internal/state"
	"chartengine/internal/viewport"
)

// Kind is the event type.
type Kind int

const (
	PointerDown Kind = iota
	PointerMove
	PointerUp
	PointerLeave
	Wheel
	TouchStart
	TouchMove
	TouchEnd
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerLeave:
		return "pointerleave"
	case Wheel:
		return "wheel"
	case TouchStart:
		return "touchstart"
	case TouchMove:
		return "touchmove"
	case TouchEnd:
		return "touchend"
	}
	return "unknown"
}

// Touch is one contact point in surface pixels.
type Touch struct {
	X, Y float64
}

// Event is a raw gesture event in surface pixels.
type Event struct {
	Kind    Kind
	X, Y    float64
	DeltaY  float64 // wheel only; positive zooms in
	Touches []Touch // touch only; current contacts
}

const (
	wheelZoomIn  = 1.1
	wheelZoomOut = 0.9
)

// Router keeps gesture state between events. One engine owns one router.
type Router struct {
	scroll autoscroll.Controller
	limits viewport.ZoomLimits

	dragging bool
	lastX    float64

	pinching  bool
	pinchDist float64
}

// NewRouter creates a router using the given auto-scroll policy and zoom limits.
func NewRouter(scroll autoscroll.Controller, limits viewport.ZoomLimits) *Router {
	return &Router{scroll: scroll, limits: limits}
}

// Dragging reports whether a pan gesture is in progress.
func (r *Router) Dragging() bool { return r.dragging }

// Handle applies ev to s and returns the resulting state and whether anything changed.
func (r *Router) Handle(ev Event, s state.State) (state.State, bool) {
	ox, oy := s.Layout.Origin()
	x, y := ev.X-ox, ev.Y-oy

	switch ev.Kind {
	case PointerDown:
		return r.pointerDown(x, y, s)
	case PointerMove:
		return r.pointerMove(x, y, s)
	case PointerUp:
		r.dragging = false
		return s, false
	case PointerLeave:
		r.dragging = false
		if s.Crosshair == nil {
			return s, false
		}
		s.Crosshair = nil
		return s, true
	case Wheel:
		factor := wheelZoomOut
		if ev.DeltaY > 0 {
			factor = wheelZoomIn
		}
		return r.zoom(s, factor, x)
	case TouchStart:
		return r.touchStart(ev.Touches, ox, s)
	case TouchMove:
		return r.touchMove(ev.Touches, ox, oy, s)
	case TouchEnd:
		r.dragging = false
		r.pinching = false
		if len(ev.Touches) == 1 {
			// Lifting one finger of a pinch continues as a pan.
			r.dragging = true
			r.lastX = ev.Touches[0].X - ox
		}
		return s, false
	}
	return s, false
}

func (r *Router) pointerDown(x, y float64, s state.State) (state.State, bool) {
	kind, drawingMode := s.InteractionMode.DrawingKind()
	if !drawingMode {
		r.dragging = true
		r.lastX = x
		return s, false
	}
	p, ok := dataPoint(x, y, s)
	if !ok {
		return s, false
	}

	if s.CurrentDrawing == nil {
		shape, err := drawing.Start(kind, p)
		if err != nil {
			return s, false
		}
		if kind == drawing.Horizontal {
			return commit(s, drawing.Finish(shape)), true
		}
		s.CurrentDrawing = &shape
		return s, true
	}
	return commit(s, drawing.Finish(drawing.Update(*s.CurrentDrawing, p))), true
}

func (r *Router) pointerMove(x, y float64, s state.State) (state.State, bool) {
	s.Crosshair = &state.Crosshair{X: x, Y: y}

	if s.CurrentDrawing != nil {
		if p, ok := dataPoint(x, y, s); ok {
			preview := drawing.Preview(*s.CurrentDrawing, p)
			s.CurrentDrawing = &preview
		}
	}

	if r.dragging && s.Viewport != nil {
		delta := x - r.lastX
		r.lastX = x
		s = r.pan(s, delta)
	}
	return s, true
}

// pan moves the view and applies the auto-scroll policy: dragging content
// right (back in time) disables following, dragging left may re-enable it.
func (r *Router) pan(s state.State, delta float64) state.State {
	if delta == 0 {
		return s
	}
	s = s.WithViewport(viewport.Pan(*s.Viewport, delta))
	if delta > 0 {
		s.AutoScrollEnabled = r.scroll.Disable()
	} else {
		s.AutoScrollEnabled = r.scroll.Update(s.AutoScrollEnabled, *s.Viewport, s.Candles)
	}
	return s
}

func (r *Router) zoom(s state.State, factor, x float64) (state.State, bool) {
	if s.Viewport == nil {
		return s, false
	}
	v := *s.Viewport
	anchor := viewport.XToTime(x, v)
	next := viewport.ZoomWithBounds(v, factor, anchor, s.Candles, r.limits)
	if next == v {
		return s, false
	}
	s = s.WithViewport(next)
	s.AutoScrollEnabled = r.scroll.Update(s.AutoScrollEnabled, next, s.Candles)
	return s, true
}

func (r *Router) touchStart(touches []Touch, ox float64, s state.State) (state.State, bool) {
	switch len(touches) {
	case 1:
		r.dragging = true
		r.pinching = false
		r.lastX = touches[0].X - ox
	case 2:
		r.dragging = false
		r.pinching = true
		r.pinchDist = distance(touches[0], touches[1])
	}
	return s, false
}

func (r *Router) touchMove(touches []Touch, ox, oy float64, s state.State) (state.State, bool) {
	switch {
	case r.pinching && len(touches) == 2:
		d := distance(touches[0], touches[1])
		if r.pinchDist <= 0 || d <= 0 {
			r.pinchDist = d
			return s, false
		}
		factor := d / r.pinchDist
		r.pinchDist = d
		mid := (touches[0].X+touches[1].X)/2 - ox
		return r.zoom(s, factor, mid)
	case r.dragging && len(touches) == 1 && s.Viewport != nil:
		x := touches[0].X - ox
		delta := x - r.lastX
		r.lastX = x
		if delta == 0 {
			return s, false
		}
		return r.pan(s, delta), true
	}
	return s, false
}

func dataPoint(x, y float64, s state.State) (drawing.Point, bool) {
	if s.Viewport == nil {
		return drawing.Point{}, false
	}
	v := *s.Viewport
	lo, hi, ok := layout.PriceRange(s.Candles, v)
	if !ok {
		return drawing.Point{}, false
	}
	return drawing.Point{
		Time:  viewport.XToTime(x, v),
		Price: viewport.YToPrice(y, v, lo, hi),
	}, true
}

func commit(s state.State, shape drawing.Shape) state.State {
	s.Drawings = append(drawing.CloneAll(s.Drawings), shape)
	s.CurrentDrawing = nil
	return s
}

func distance(a, b Touch) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
