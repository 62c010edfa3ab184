package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"chartengine/internal/frame"
	"chartengine/internal/input"
	"chartengine/internal/marketdata/agg"
	"chartengine/internal/model"
	"chartengine/internal/ringbuf"
)

const (
	// DefaultFPS is the frame rate of the run loop.
	DefaultFPS = 60
	// DefaultMaxTicksPerFrame bounds how many inbox ticks one frame drains.
	DefaultMaxTicksPerFrame = 4096
)

// ErrLoopStopped is returned when posting to a loop that has exited.
var ErrLoopStopped = errors.New("engine loop stopped")

// LoopConfig configures a Loop.
type LoopConfig struct {
	FPS              int
	MaxTicksPerFrame int
	Logger           *slog.Logger

	// OnTicks runs after each drain with the number of ticks consumed.
	OnTicks func(n int)
	// OnCandleClosed runs for every candle the aggregator finalizes.
	OnCandleClosed func(c model.Candle)
	// OnDroppedTick runs for ticks the aggregator rejects.
	OnDroppedTick func(reason agg.DropReason)
	// OnFlush runs after every frame flush with its duration.
	OnFlush func(d time.Duration)
}

// Loop drives an Engine from a single goroutine: it drains the tick inbox
// into the aggregator, applies posted commands and input, and flushes the
// frame queue at a fixed rate.
type Loop struct {
	engine *Engine
	queue  *frame.Queue
	inbox  *ringbuf.Ring
	agg    *agg.Aggregator
	cfg    LoopConfig
	logger *slog.Logger

	commands chan func()
	events   chan input.Event
	done     chan struct{}
}

// NewLoop binds e, which must have been created with q as its scheduler,
// to a tick inbox.
func NewLoop(e *Engine, q *frame.Queue, inbox *ringbuf.Ring, cfg LoopConfig) (*Loop, error) {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.MaxTicksPerFrame <= 0 {
		cfg.MaxTicksPerFrame = DefaultMaxTicksPerFrame
	}
	if cfg.Logger == nil {
		cfg.Logger = e.logger
	}
	l := &Loop{
		engine:   e,
		queue:    q,
		inbox:    inbox,
		cfg:      cfg,
		logger:   cfg.Logger,
		commands: make(chan func(), 64),
		events:   make(chan input.Event, 256),
		done:     make(chan struct{}),
	}
	if err := l.rebuildAggregator(e.Timeframe()); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loop) rebuildAggregator(tf model.Timeframe) error {
	a, err := agg.New(tf)
	if err != nil {
		return err
	}
	a.OnCandleClosed = func(c model.Candle) {
		if l.cfg.OnCandleClosed != nil {
			l.cfg.OnCandleClosed(c)
		}
		if err := l.engine.HandleCandleClosed(c); err != nil {
			l.logger.Warn("closed candle rejected", "ts", c.Timestamp, "error", err)
		}
	}
	a.OnCandleUpdated = func(c model.Candle) {
		if err := l.engine.HandleCandleUpdated(c); err != nil {
			l.logger.Warn("candle update rejected", "ts", c.Timestamp, "error", err)
		}
	}
	a.OnDroppedTick = l.cfg.OnDroppedTick
	l.agg = a
	return nil
}

// Ingest queues a tick for the next frame. It must only be called from a
// single producer goroutine and reports false when the inbox is full.
func (l *Loop) Ingest(t model.Tick) bool {
	return l.inbox.Push(t)
}

// Dispatch queues an input event. It blocks until the loop accepts it or
// ctx is done.
func (l *Loop) Dispatch(ctx context.Context, ev input.Event) error {
	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func(e *Engine) error) error {
	res := make(chan error, 1)
	cmd := func() { res <- fn(l.engine) }
	select {
	case l.commands <- cmd:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-res:
		return err
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetTimeframe changes the engine timeframe and restarts aggregation.
// The in-progress candle of the old timeframe is discarded.
func (l *Loop) SetTimeframe(ctx context.Context, tf string) error {
	return l.Do(ctx, func(e *Engine) error {
		if err := e.SetTimeframe(tf); err != nil {
			return err
		}
		if err := l.rebuildAggregator(e.Timeframe()); err != nil {
			return err
		}
		e.ResetData()
		return nil
	})
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Run processes the loop until ctx is cancelled, then destroys the engine.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer l.engine.Destroy()

	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.FPS))
	defer ticker.Stop()

	l.logger.Info("engine loop started", "fps", l.cfg.FPS, "inbox", l.inbox.Cap())
	for {
		select {
		case <-ctx.Done():
			l.agg.Flush()
			l.logger.Info("engine loop stopped", "overflow", l.inbox.Overflow())
			return nil
		case cmd := <-l.commands:
			cmd()
		case ev := <-l.events:
			l.engine.HandleInput(ev)
		case now := <-ticker.C:
			l.Step(now)
		}
	}
}

// Step drains pending ticks and flushes one frame at now. Candles built
// from the drained ticks are published once, before the flush.
func (l *Loop) Step(now time.Time) {
	l.engine.beginBatch()
	n := l.inbox.Drain(l.cfg.MaxTicksPerFrame, l.agg.Ingest)
	l.engine.endBatch()
	if l.cfg.OnTicks != nil && n > 0 {
		l.cfg.OnTicks(n)
	}
	start := time.Now()
	l.queue.Flush(now)
	if l.cfg.OnFlush != nil {
		l.cfg.OnFlush(time.Since(start))
	}
}
