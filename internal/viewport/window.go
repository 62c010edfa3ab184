package viewport

import (
	"math"

	"chartengine/internal/model"
)

const (
	// DefaultLivePadding is the fraction of the span kept empty to the right of the last candle.
	DefaultLivePadding = 0.05

	// CandleSlotPx is the nominal pixel slot per candle for the initial window.
	CandleSlotPx = 8

	minInitialCandles = 20
	maxInitialCandles = 200
)

// FromCandles builds a viewport covering every candle with DefaultTimePadding.
func FromCandles(candles []model.Candle, widthPx, heightPx float64) (Viewport, bool) {
	from, to, ok := DataTimeRange(candles, DefaultTimePadding)
	if !ok {
		return Viewport{}, false
	}
	return Viewport{From: from, To: to, WidthPx: widthPx, HeightPx: heightPx}, true
}

// InitialCandleCount returns how many trailing candles the first view should show.
func InitialCandleCount(widthPx float64) int {
	if widthPx <= 0 || !finite(widthPx) {
		return minInitialCandles
	}
	n := int(widthPx / CandleSlotPx)
	if n < minInitialCandles {
		return minInitialCandles
	}
	if n > maxInitialCandles {
		return maxInitialCandles
	}
	return n
}

// FromLastCandles builds a viewport over the last count candles.
func FromLastCandles(candles []model.Candle, count int, widthPx, heightPx float64) (Viewport, bool) {
	if count <= 0 || len(candles) == 0 {
		return Viewport{}, false
	}
	start := len(candles) - count
	if start < 0 {
		start = 0
	}
	return FromCandles(candles[start:], widthPx, heightPx)
}

// LivePadding returns the gap kept right of the last candle for a given span.
func LivePadding(span, fraction float64) float64 {
	return span * fraction
}

// PanToLatest keeps the span and moves the right edge to lastCandle + padding.
func PanToLatest(v Viewport, candles []model.Candle, fraction float64) Viewport {
	if len(candles) == 0 {
		return v
	}
	span := v.Span()
	last := float64(candles[len(candles)-1].Timestamp)
	v.To = last + LivePadding(span, fraction)
	v.From = v.To - span
	return v
}

// IsAtLatest reports whether the right edge covers the last candle within a
// tolerance of fraction*span. The exact boundary counts as at-latest.
func IsAtLatest(v Viewport, candles []model.Candle, fraction float64) bool {
	if len(candles) == 0 {
		return false
	}
	last := float64(candles[len(candles)-1].Timestamp)
	return v.To+LivePadding(v.Span(), fraction) >= last
}

// Visible returns the candles whose timestamps fall inside the viewport
// widened by fraction*span on each side. The result aliases the input.
func Visible(candles []model.Candle, v Viewport, fraction float64) []model.Candle {
	pad := v.Span() * fraction
	lo, hi := v.From-pad, v.To+pad
	start, end := -1, -1
	for i, c := range candles {
		ts := float64(c.Timestamp)
		if ts < lo {
			continue
		}
		if ts > hi {
			break
		}
		if start < 0 {
			start = i
		}
		end = i + 1
	}
	if start < 0 {
		return nil
	}
	return candles[start:end]
}

// AverageInterval returns the mean gap between consecutive candle timestamps.
func AverageInterval(candles []model.Candle) (float64, bool) {
	if len(candles) < 2 {
		return 0, false
	}
	total := float64(candles[len(candles)-1].Timestamp - candles[0].Timestamp)
	avg := total / float64(len(candles)-1)
	if avg <= 0 || math.IsNaN(avg) {
		return 0, false
	}
	return avg, true
}
