// Package autoscroll decides when the viewport should follow the newest candle.
package autoscroll

import (
	"chartengine/internal/model"
	"chartengine/internal/viewport"
)

// Controller holds the live-edge tolerance. It carries no other state; the
// enabled flag lives in the chart state and is passed in and returned.
type Controller struct {
	// Padding is the fraction of the span kept right of the last candle and
	// the tolerance used to detect the live edge.
	Padding float64
}

// New returns a controller using viewport.DefaultLivePadding.
func New() Controller {
	return Controller{Padding: viewport.DefaultLivePadding}
}

// Disable is called on user interaction that moves away from the live edge.
func (c Controller) Disable() bool { return false }

// ScrollToLive pans to the newest candle keeping the span, and re-enables
// following. Without candles the viewport is returned unchanged.
func (c Controller) ScrollToLive(v viewport.Viewport, candles []model.Candle) (viewport.Viewport, bool) {
	if len(candles) == 0 {
		return v, true
	}
	return viewport.PanToLatest(v, candles, c.Padding), true
}

// Update re-enables following once the viewport is back at the live edge.
// It never disables on its own.
func (c Controller) Update(enabled bool, v viewport.Viewport, candles []model.Candle) bool {
	if enabled {
		return true
	}
	return viewport.IsAtLatest(v, candles, c.Padding)
}

// AtLatest reports whether v covers the newest candle.
func (c Controller) AtLatest(v viewport.Viewport, candles []model.Candle) bool {
	return viewport.IsAtLatest(v, candles, c.Padding)
}

// Follow moves v to the live edge when enabled is set.
func (c Controller) Follow(enabled bool, v viewport.Viewport, candles []model.Candle) viewport.Viewport {
	if !enabled || len(candles) == 0 {
		return v
	}
	return viewport.PanToLatest(v, candles, c.Padding)
}
