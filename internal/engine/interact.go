package engine

import (
	"errors"
	"fmt"

	"chartengine/internal/drawing"
	"chartengine/internal/input"
	"chartengine/internal/state"
)

// ErrInvalidMode is returned for an unknown interaction mode.
var ErrInvalidMode = errors.New("invalid interaction mode")

// HandleInput routes one pointer, wheel or touch event.
func (e *Engine) HandleInput(ev input.Event) {
	if e.destroyed {
		return
	}
	next, changed := e.router.Handle(ev, e.st)
	if !changed {
		return
	}
	e.st = next
	e.publish(e.clock(), nil)
}

// ScrollToLive jumps to the newest candle and re-enables auto-scroll,
// superseding any pending follow.
func (e *Engine) ScrollToLive() {
	if e.destroyed || e.st.Viewport == nil {
		return
	}
	e.follow.Cancel()
	prev := e.displayed()
	v, enabled := e.scroll.ScrollToLive(*e.st.Viewport, e.st.Candles)
	e.st = e.st.WithViewport(v)
	e.st.AutoScrollEnabled = enabled
	e.publish(e.clock(), prev)
}

// SetDrawingMode selects what pointer drags do. Switching modes discards
// an in-progress shape.
func (e *Engine) SetDrawingMode(mode state.InteractionMode) error {
	if e.destroyed {
		return ErrDestroyed
	}
	if !mode.Valid() {
		return fmt.Errorf("engine: %w: %q", ErrInvalidMode, mode)
	}
	if mode == e.st.InteractionMode {
		return nil
	}
	e.st.InteractionMode = mode
	e.st.CurrentDrawing = nil
	e.publish(e.clock(), nil)
	return nil
}

// ClearDrawings removes every drawing, including one in progress.
func (e *Engine) ClearDrawings() {
	if e.destroyed {
		return
	}
	e.st.Drawings = nil
	e.st.CurrentDrawing = nil
	e.publish(e.clock(), nil)
}

// Drawings returns a copy of the completed drawings.
func (e *Engine) Drawings() []drawing.Shape {
	return drawing.CloneAll(e.st.Drawings)
}
