// Package layout converts candles and a viewport into pixel geometry.
package layout

import (
	"math"

	"chartengine/internal/model"
	"chartengine/internal/viewport"
)

// CandleRect is the on-screen geometry of one candle. X/Y/W/H describe the
// body; the wick runs from HighY to LowY at CenterX.
type CandleRect struct {
	Timestamp int64
	X, Y      float64
	W, H      float64
	CenterX   float64
	HighY     float64
	LowY      float64
	Up        bool
}

// MinBodyPx keeps flat candles visible.
const MinBodyPx = 1

// CandleWidth derives the body width from the average interval of the
// visible candles, falling back to the whole list and finally to an even
// split of the plot width.
func CandleWidth(visible, all []model.Candle, v viewport.Viewport) float64 {
	span := v.Span()
	interval, ok := viewport.AverageInterval(visible)
	if !ok {
		interval, ok = viewport.AverageInterval(all)
	}
	var w float64
	if ok && span > 0 {
		w = interval / span * v.WidthPx * viewport.FillRatio
	} else if n := len(visible); n > 0 {
		w = v.WidthPx / float64(n) * viewport.FillRatio
	}
	if math.IsNaN(w) || math.IsInf(w, 0) {
		w = 0
	}
	return math.Max(1, w)
}

// ComputeCandleRects lays out the candles visible in v (widened by the live
// padding fraction) against the price range [minPrice, maxPrice].
func ComputeCandleRects(candles []model.Candle, v viewport.Viewport, minPrice, maxPrice float64) []CandleRect {
	visible := viewport.Visible(candles, v, viewport.DefaultLivePadding)
	if len(visible) == 0 {
		return nil
	}

	w := CandleWidth(visible, candles, v)
	out := make([]CandleRect, 0, len(visible))
	for _, c := range visible {
		cx := viewport.TimeToX(float64(c.Timestamp), v)
		openY := viewport.PriceToY(c.Open, v, minPrice, maxPrice)
		closeY := viewport.PriceToY(c.Close, v, minPrice, maxPrice)
		top := math.Min(openY, closeY)
		bottom := math.Max(openY, closeY)

		out = append(out, CandleRect{
			Timestamp: c.Timestamp,
			X:         cx - w/2,
			Y:         top,
			W:         w,
			H:         math.Max(MinBodyPx, bottom-top),
			CenterX:   cx,
			HighY:     viewport.PriceToY(c.High, v, minPrice, maxPrice),
			LowY:      viewport.PriceToY(c.Low, v, minPrice, maxPrice),
			Up:        c.IsUp(),
		})
	}
	return out
}

// PriceRange returns the padded low/high of the visible candles, falling
// back to all candles when none are visible.
func PriceRange(candles []model.Candle, v viewport.Viewport) (float64, float64, bool) {
	visible := viewport.Visible(candles, v, viewport.DefaultLivePadding)
	if len(visible) == 0 {
		visible = candles
	}
	lo, hi, ok := viewport.PriceRange(visible)
	if !ok {
		return 0, 0, false
	}
	lo, hi = viewport.PadPriceRange(lo, hi, viewport.DefaultPricePadding)
	return lo, hi, true
}
