// Package engine owns the chart state and exposes the chart API.
//
// An Engine is single-threaded: every method must be called from the
// goroutine that flushes its frame scheduler (see Loop).
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chartengine/internal/animation"
	"chartengine/internal/autoscroll"
	"chartengine/internal/frame"
	"chartengine/internal/indicator"
	"chartengine/internal/input"
	"chartengine/internal/model"
	"chartengine/internal/render"
	"chartengine/internal/state"
	"chartengine/internal/theme"
	"chartengine/internal/viewport"
)

// ErrDestroyed is returned by API calls made after Destroy.
var ErrDestroyed = errors.New("engine destroyed")

// Hooks observe engine activity (all optional).
type Hooks struct {
	// OnFollow runs after a coalesced follow moved the viewport.
	OnFollow func(v viewport.Viewport)
	// OnFrame runs after every painted frame.
	OnFrame func(now time.Time, animating bool)
	// OnCandle runs for every candle added to the visible series.
	OnCandle func(c model.Candle, appended bool)
	// OnPublish runs each time a new target state goes to the animator.
	OnPublish func()
}

// Options configure a new Engine.
type Options struct {
	Symbol    string
	Timeframe model.Timeframe

	// AnimationDuration is the transition length; zero selects
	// animation.DefaultDuration and a negative value disables blending.
	AnimationDuration time.Duration
	ZoomLimits        viewport.ZoomLimits

	Clock  func() time.Time
	Logger *slog.Logger
	Hooks  Hooks
}

// Engine orchestrates state, input, follow scheduling and rendering.
type Engine struct {
	id     string
	symbol string
	tf     model.Timeframe

	st       state.State
	registry *indicator.Registry
	scroll   autoscroll.Controller
	router   *input.Router

	follow   *frame.Coalescer
	ip       *animation.Interpolator
	loop     *animation.Loop
	renderer *render.Renderer

	width, height float64

	clock     func() time.Time
	logger    *slog.Logger
	hooks     Hooks
	destroyed bool

	// While batching, streamed candles mark the state stale instead of
	// recomputing indicators and publishing per candle.
	batching bool
	stale    bool
}

// New creates an engine painting onto surface and starts its render loop
// on sched. A malformed timeframe is rejected.
func New(surface render.Surface, sched frame.Scheduler, opts Options) (*Engine, error) {
	tf, err := model.ParseTimeframe(string(opts.Timeframe))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	limits := opts.ZoomLimits
	if limits == (viewport.ZoomLimits{}) {
		limits = viewport.DefaultZoomLimits()
	}
	d := opts.AnimationDuration
	switch {
	case d == 0:
		d = animation.DefaultDuration
	case d < 0:
		d = 0
	}

	id := uuid.NewString()
	e := &Engine{
		id:       id,
		symbol:   opts.Symbol,
		tf:       tf,
		st:       state.New(),
		registry: indicator.NewRegistry(),
		scroll:   autoscroll.New(),
		follow:   frame.NewCoalescer(sched),
		ip:       animation.NewInterpolator(d),
		renderer: render.New(surface, opts.Logger),
		clock:    opts.Clock,
		logger:   opts.Logger.With("engine_id", id),
		hooks:    opts.Hooks,
	}
	e.router = input.NewRouter(e.scroll, limits)
	e.width, e.height = surface.Size()

	e.loop = animation.NewLoop(sched, e.ip, e.renderer.Render)
	e.loop.OnFrame = opts.Hooks.OnFrame
	e.publish(e.clock(), nil)
	e.loop.Start()

	e.logger.Info("engine created", "symbol", e.symbol, "timeframe", string(tf),
		"width", e.width, "height", e.height)
	return e, nil
}

// ID returns the engine instance id.
func (e *Engine) ID() string { return e.id }

// Symbol returns the current symbol.
func (e *Engine) Symbol() string { return e.symbol }

// Timeframe returns the current timeframe.
func (e *Engine) Timeframe() model.Timeframe { return e.tf }

// Renderer returns the renderer painting this engine's frames.
func (e *Engine) Renderer() *render.Renderer { return e.renderer }

// SetSymbol records the displayed symbol.
func (e *Engine) SetSymbol(symbol string) {
	if e.destroyed {
		return
	}
	e.symbol = symbol
}

// SetTimeframe records the bucket granularity. A malformed identifier is
// a configuration error and leaves the timeframe unchanged.
func (e *Engine) SetTimeframe(s string) error {
	if e.destroyed {
		return ErrDestroyed
	}
	tf, err := model.ParseTimeframe(s)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.tf = tf
	return nil
}

// publish makes the current state the animation target. explicitPrev, when
// set, is the state the transition starts from.
func (e *Engine) publish(now time.Time, explicitPrev *state.State) {
	e.ip.SetTarget(e.st, now, explicitPrev)
	if e.hooks.OnPublish != nil {
		e.hooks.OnPublish()
	}
}

// beginBatch defers indicator recomputation and publishing of streamed
// candles until endBatch.
func (e *Engine) beginBatch() {
	e.batching = true
}

func (e *Engine) endBatch() {
	e.batching = false
	if !e.stale {
		return
	}
	e.stale = false
	if e.destroyed {
		return
	}
	e.recalculateIndicators()
	e.publish(e.clock(), nil)
}

// displayed returns what is on screen, if anything. The interpolator
// clones it when it becomes a transition start.
func (e *Engine) displayed() *state.State {
	s, ok := e.ip.Displayed()
	if !ok {
		return nil
	}
	return &s
}

func (e *Engine) recalculateIndicators() {
	if len(e.st.Candles) == 0 {
		e.st.Indicators = nil
		return
	}
	series, err := e.registry.CalculateAll(e.st.Candles)
	if err != nil {
		e.logger.Error("indicator recompute failed", "error", err)
		return
	}
	e.st.Indicators = series
}

// recalculateViewport sizes the viewport to the plot area. With
// preserveRange the time range is kept; otherwise the initial window over
// the last candles is rebuilt.
func (e *Engine) recalculateViewport(preserveRange bool) {
	w, h := e.st.Layout.PlotSize(e.width, e.height)
	if preserveRange && e.st.Viewport != nil {
		e.st = e.st.WithViewport(viewport.Resize(*e.st.Viewport, w, h))
		return
	}
	if len(e.st.Candles) == 0 {
		return
	}
	v, ok := viewport.FromLastCandles(e.st.Candles, viewport.InitialCandleCount(w), w, h)
	if !ok {
		return
	}
	e.st = e.st.WithViewport(v)
}

// scheduleFollow requests at most one frame-aligned pan to the newest
// candle; further calls before that frame reuse the pending request.
func (e *Engine) scheduleFollow() {
	if !e.st.AutoScrollEnabled || e.st.Viewport == nil {
		return
	}
	e.follow.Schedule(e.applyFollow)
}

func (e *Engine) applyFollow(now time.Time) {
	if e.destroyed || !e.st.AutoScrollEnabled || e.st.Viewport == nil {
		return
	}
	prev := e.displayed()
	v := e.scroll.Follow(true, *e.st.Viewport, e.st.Candles)
	e.st = e.st.WithViewport(v)
	e.publish(now, prev)
	if e.hooks.OnFollow != nil {
		e.hooks.OnFollow(v)
	}
}

// FollowState reports the coalesced follow lifecycle.
func (e *Engine) FollowState() frame.State { return e.follow.State() }

// Destroy cancels the pending follow and stops the render loop. Idempotent.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.follow.Cancel()
	e.loop.Stop()
	e.logger.Info("engine destroyed")
}

// Destroyed reports whether Destroy has been called.
func (e *Engine) Destroyed() bool { return e.destroyed }

// SetTheme switches the color theme.
func (e *Engine) SetTheme(name string) error {
	if e.destroyed {
		return ErrDestroyed
	}
	th, err := theme.Get(name)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.st.Theme = &th
	e.publish(e.clock(), nil)
	return nil
}

// SetLabelPadding toggles the axis label gutters; the viewport keeps its
// time range and adopts the new plot size.
func (e *Engine) SetLabelPadding(enabled bool) {
	if e.destroyed {
		return
	}
	e.st.Layout.LabelPadding.Enabled = enabled
	e.recalculateViewport(true)
	e.publish(e.clock(), nil)
}

// Resize adopts a new surface size, keeping the visible time range.
func (e *Engine) Resize(width, height float64) {
	if e.destroyed {
		return
	}
	e.width, e.height = max(0, width), max(0, height)
	e.recalculateViewport(true)
	e.publish(e.clock(), nil)
}
