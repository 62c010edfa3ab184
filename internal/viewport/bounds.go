package viewport

import (
	"math"

	"chartengine/internal/model"
)

// FillRatio is the share of a candle's time slot covered by its body.
const FillRatio = 0.8

// ZoomLimits bounds the on-screen candle width a zoom may produce.
type ZoomLimits struct {
	MinCandlePx float64
	MaxCandlePx float64
	// TimePadding is the fraction of the data span allowed beyond the first and last candle.
	TimePadding float64
}

// DefaultZoomLimits keeps candles between 2px and 120px wide.
func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{MinCandlePx: 2, MaxCandlePx: 120, TimePadding: DefaultTimePadding}
}

// SpanLimits converts candle width limits into a [minSpan, maxSpan] for a
// given candle interval and pixel width.
func (l ZoomLimits) SpanLimits(interval, widthPx float64) (minSpan, maxSpan float64) {
	minSpan, maxSpan = 0, math.Inf(1)
	if interval <= 0 || widthPx <= 0 {
		return minSpan, maxSpan
	}
	slot := interval * widthPx * FillRatio
	if l.MaxCandlePx > 0 {
		minSpan = slot / l.MaxCandlePx
	}
	if l.MinCandlePx > 0 {
		maxSpan = slot / l.MinCandlePx
	}
	return minSpan, maxSpan
}

// ZoomWithBounds zooms around anchor, then limits the resulting candle width
// using the average interval of the currently visible candles, and finally
// clamps the range to the padded data range (shifting rather than shrinking).
func ZoomWithBounds(v Viewport, factor, anchor float64, candles []model.Candle, limits ZoomLimits) Viewport {
	if factor <= 0 || !finite(factor) || !finite(anchor) || v.Span() <= 0 {
		return v
	}
	minTime, maxTime, ok := DataTimeRange(candles, limits.TimePadding)
	if !ok {
		return Zoom(v, factor, anchor)
	}

	newSpan := v.Span() / factor

	visible := Visible(candles, v, 0)
	interval, ok := AverageInterval(visible)
	if !ok {
		interval, ok = AverageInterval(candles)
	}
	if ok {
		minSpan, maxSpan := limits.SpanLimits(interval, v.WidthPx)
		newSpan = math.Min(math.Max(newSpan, minSpan), maxSpan)
	}

	return Clamp(zoomToSpan(v, newSpan, anchor), minTime, maxTime)
}
