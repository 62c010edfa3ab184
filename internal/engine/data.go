package engine

import (
	"fmt"

	"chartengine/internal/indicator"
	"chartengine/internal/model"
	"chartengine/internal/state"
)

// LoadCandles replaces the series with candles, rebuilds the initial
// window over the newest candles and re-enables auto-scroll. Any pending
// follow is cancelled.
func (e *Engine) LoadCandles(candles []model.Candle) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := model.ValidateSeries(candles); err != nil {
		return fmt.Errorf("engine: load: %w", err)
	}
	e.follow.Cancel()
	e.st.Candles = model.CloneCandles(candles)
	e.st.MissedCandles = nil
	e.st.AutoScrollEnabled = true
	e.recalculateViewport(false)
	e.recalculateIndicators()
	e.publish(e.clock(), nil)
	e.logger.Debug("candles loaded", "count", len(candles))
	return nil
}

// AppendCandle adds a candle after the current last one. When auto-scroll
// is on, a follow is scheduled for the next frame; appends arriving before
// that frame share it.
func (e *Engine) AppendCandle(c model.Candle) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("engine: append: %w", err)
	}
	if last, ok := e.st.LastCandle(); ok && c.Timestamp <= last.Timestamp {
		return fmt.Errorf("engine: append: %w: ts=%d after ts=%d", model.ErrOutOfOrder, c.Timestamp, last.Timestamp)
	}
	e.st.Candles, _ = state.Upsert(e.st.Candles, c)
	e.afterCandle(c, true)
	return nil
}

// HandleCandleClosed ingests a finished candle from the aggregator.
func (e *Engine) HandleCandleClosed(c model.Candle) error {
	return e.ingestLive(c)
}

// HandleCandleUpdated ingests an in-progress candle from the aggregator.
func (e *Engine) HandleCandleUpdated(c model.Candle) error {
	return e.ingestLive(c)
}

// ingestLive upserts a streamed candle. While paused it goes to the missed
// buffer instead of the visible series.
func (e *Engine) ingestLive(c model.Candle) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("engine: stream: %w", err)
	}
	if e.st.Playback == state.Paused {
		tail, ok := e.st.LastCandle()
		if n := len(e.st.MissedCandles); n > 0 {
			tail, ok = e.st.MissedCandles[n-1], true
		}
		if ok && c.Timestamp < tail.Timestamp {
			return fmt.Errorf("engine: stream: %w: ts=%d before ts=%d", model.ErrOutOfOrder, c.Timestamp, tail.Timestamp)
		}
		e.st.MissedCandles, _ = state.Upsert(e.st.MissedCandles, c)
		return nil
	}
	if last, ok := e.st.LastCandle(); ok && c.Timestamp < last.Timestamp {
		return fmt.Errorf("engine: stream: %w: ts=%d before ts=%d", model.ErrOutOfOrder, c.Timestamp, last.Timestamp)
	}
	var appended bool
	e.st.Candles, appended = state.Upsert(e.st.Candles, c)
	e.afterCandle(c, appended)
	return nil
}

func (e *Engine) afterCandle(c model.Candle, appended bool) {
	if e.st.Viewport == nil {
		e.recalculateViewport(false)
	}
	if appended {
		e.scheduleFollow()
	}
	if e.batching {
		e.stale = true
	} else {
		e.recalculateIndicators()
		e.publish(e.clock(), nil)
	}
	if e.hooks.OnCandle != nil {
		e.hooks.OnCandle(c, appended)
	}
}

// ResetData clears candles and the viewport and cancels any pending follow.
func (e *Engine) ResetData() {
	if e.destroyed {
		return
	}
	e.follow.Cancel()
	e.st.Candles = nil
	e.st.MissedCandles = nil
	e.st.Viewport = nil
	e.st.Indicators = nil
	e.st.CurrentDrawing = nil
	e.st.AutoScrollEnabled = true
	e.publish(e.clock(), nil)
}

// Pause stops streamed candles from reaching the visible series.
func (e *Engine) Pause() {
	if e.destroyed || e.st.Playback == state.Paused {
		return
	}
	e.st.Playback = state.Paused
	e.publish(e.clock(), nil)
}

// Play resumes live updates, merging candles buffered while paused.
func (e *Engine) Play() {
	if e.destroyed || e.st.Playback == state.Live {
		return
	}
	e.st.Playback = state.Live
	before := len(e.st.Candles)
	if len(e.st.MissedCandles) > 0 {
		e.st.Candles = state.Merge(e.st.Candles, e.st.MissedCandles)
		e.st.MissedCandles = nil
		if e.st.Viewport == nil {
			e.recalculateViewport(false)
		}
		e.recalculateIndicators()
	}
	if len(e.st.Candles) > before {
		e.scheduleFollow()
	}
	e.publish(e.clock(), nil)
}

// AddIndicator registers an indicator under id and computes its series.
func (e *Engine) AddIndicator(id string, spec indicator.Spec) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := e.registry.Add(id, spec); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.recalculateIndicators()
	e.publish(e.clock(), nil)
	return nil
}

// RemoveIndicator drops the indicator registered under id.
func (e *Engine) RemoveIndicator(id string) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if err := e.registry.Remove(id); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	e.recalculateIndicators()
	e.publish(e.clock(), nil)
	return nil
}
