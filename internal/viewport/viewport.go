// Package viewport maps between chart time/price space and pixel space and
// implements the pan, zoom and clamp algebra used by the chart engine.
//
// All functions are pure: they take a Viewport value and return a new one.
// Degenerate inputs (zero spans, zero pixel sizes, non-finite factors) never
// panic; they map to a fixed edge or return the input unchanged.
package viewport

import "math"

// Viewport is the visible time range (Unix ms) and the pixel size of the plot area.
type Viewport struct {
	From     float64 `json:"from"`
	To       float64 `json:"to"`
	WidthPx  float64 `json:"width_px"`
	HeightPx float64 `json:"height_px"`
}

// Span returns To - From.
func (v Viewport) Span() float64 {
	return v.To - v.From
}

// Valid reports whether From < To, both finite, and pixel sizes are non-negative.
func (v Viewport) Valid() bool {
	return finite(v.From) && finite(v.To) && v.From < v.To && v.WidthPx >= 0 && v.HeightPx >= 0
}

// TimeToX maps a timestamp to an x coordinate. A zero span maps to 0.
func TimeToX(t float64, v Viewport) float64 {
	span := v.Span()
	if span == 0 || !finite(span) {
		return 0
	}
	return (t - v.From) / span * v.WidthPx
}

// XToTime maps an x coordinate to a timestamp. A zero width maps to From.
func XToTime(x float64, v Viewport) float64 {
	if v.WidthPx == 0 {
		return v.From
	}
	return v.From + x/v.WidthPx*v.Span()
}

// PriceToY maps a price to a y coordinate (maxPrice at the top). A zero price span maps to 0.
func PriceToY(price float64, v Viewport, minPrice, maxPrice float64) float64 {
	span := maxPrice - minPrice
	if span == 0 || !finite(span) {
		return 0
	}
	return (maxPrice - price) / span * v.HeightPx
}

// YToPrice maps a y coordinate to a price. A zero height maps to minPrice.
func YToPrice(y float64, v Viewport, minPrice, maxPrice float64) float64 {
	if v.HeightPx == 0 {
		return minPrice
	}
	return maxPrice - y/v.HeightPx*(maxPrice-minPrice)
}

// Pan shifts the viewport by deltaPx screen pixels. Dragging content to the
// right (positive delta) moves the visible range back in time.
func Pan(v Viewport, deltaPx float64) Viewport {
	if v.WidthPx == 0 || !finite(deltaPx) {
		return v
	}
	dt := deltaPx / v.WidthPx * v.Span()
	v.From -= dt
	v.To -= dt
	return v
}

// Zoom divides the span by factor (factor > 1 zooms in) keeping the anchor
// at the same relative position, so timeToX(anchor) is unchanged.
func Zoom(v Viewport, factor, anchor float64) Viewport {
	if factor <= 0 || !finite(factor) || !finite(anchor) {
		return v
	}
	span := v.Span()
	if span <= 0 {
		return v
	}
	return zoomToSpan(v, span/factor, anchor)
}

func zoomToSpan(v Viewport, newSpan, anchor float64) Viewport {
	ratio := (anchor - v.From) / v.Span()
	v.From = anchor - ratio*newSpan
	v.To = v.From + newSpan
	return v
}

// Resize replaces the pixel dimensions and keeps the time range.
func Resize(v Viewport, widthPx, heightPx float64) Viewport {
	v.WidthPx = math.Max(0, widthPx)
	v.HeightPx = math.Max(0, heightPx)
	return v
}

// Clamp fits the viewport inside [minTime, maxTime]. A viewport wider than the
// range is set to the range; otherwise it is shifted, never shrunk.
func Clamp(v Viewport, minTime, maxTime float64) Viewport {
	span := v.Span()
	if span >= maxTime-minTime {
		v.From = minTime
		v.To = maxTime
		return v
	}

	from := math.Max(v.From, minTime)
	to := from + span
	if to > maxTime {
		to = maxTime
		from = math.Max(to-span, minTime)
	}
	v.From = from
	v.To = to
	return v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
