// Package state defines the chart state aggregate.
//
// A State is treated as an immutable value: code that changes it builds a
// new State whose changed slices are freshly allocated, so a State handed
// to another component is never altered behind its back.
package state

import (
	"slices"

	"chartengine/internal/drawing"
	"chartengine/internal/indicator"
	"chartengine/internal/model"
	"chartengine/internal/theme"
	"chartengine/internal/viewport"
)

// Playback selects whether streamed candles go to the chart or a side buffer.
type Playback string

const (
	Live   Playback = "live"
	Paused Playback = "paused"
)

// InteractionMode selects what a pointer drag does.
type InteractionMode string

const (
	ModePan            InteractionMode = "pan"
	ModeDrawTrendline  InteractionMode = "draw-trendline"
	ModeDrawHorizontal InteractionMode = "draw-horizontal"
)

// DrawingKind returns the shape kind a drawing mode produces.
func (m InteractionMode) DrawingKind() (drawing.Kind, bool) {
	switch m {
	case ModeDrawTrendline:
		return drawing.Trendline, true
	case ModeDrawHorizontal:
		return drawing.Horizontal, true
	}
	return "", false
}

// Valid reports whether m is a known mode.
func (m InteractionMode) Valid() bool {
	switch m {
	case ModePan, ModeDrawTrendline, ModeDrawHorizontal:
		return true
	}
	return false
}

// Crosshair is the pointer position in plot pixels.
type Crosshair struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

const (
	DefaultLabelPaddingLeft   = 60
	DefaultLabelPaddingBottom = 30
)

// LabelPadding reserves room for axis labels left of and below the plot.
type LabelPadding struct {
	Enabled bool    `json:"enabled"`
	Left    float64 `json:"left"`
	Bottom  float64 `json:"bottom"`
}

// Layout holds layout options.
type Layout struct {
	LabelPadding LabelPadding `json:"labelPadding"`
}

// PlotSize returns the plot area left after label padding.
func (l Layout) PlotSize(widthPx, heightPx float64) (float64, float64) {
	if !l.LabelPadding.Enabled {
		return widthPx, heightPx
	}
	return max(0, widthPx-l.LabelPadding.Left), max(0, heightPx-l.LabelPadding.Bottom)
}

// Origin returns the pixel offset of the plot area within the surface.
func (l Layout) Origin() (x, y float64) {
	if !l.LabelPadding.Enabled {
		return 0, 0
	}
	return l.LabelPadding.Left, 0
}

// State is the whole chart at one instant.
type State struct {
	Candles           []model.Candle     `json:"candles"`
	MissedCandles     []model.Candle     `json:"missedCandles,omitempty"`
	Viewport          *viewport.Viewport `json:"viewport,omitempty"`
	AutoScrollEnabled bool               `json:"autoScrollEnabled"`
	Playback          Playback           `json:"playback"`
	Crosshair         *Crosshair         `json:"crosshair,omitempty"`
	Drawings          []drawing.Shape    `json:"drawings,omitempty"`
	CurrentDrawing    *drawing.Shape     `json:"currentDrawing,omitempty"`
	Indicators        []indicator.Series `json:"indicators,omitempty"`
	InteractionMode   InteractionMode    `json:"interactionMode"`
	Theme             *theme.Theme       `json:"theme,omitempty"`
	Layout            Layout             `json:"layout"`
}

// New returns the initial state: live, following, panning, label padding on.
func New() State {
	return State{
		AutoScrollEnabled: true,
		Playback:          Live,
		InteractionMode:   ModePan,
		Layout: Layout{LabelPadding: LabelPadding{
			Enabled: true,
			Left:    DefaultLabelPaddingLeft,
			Bottom:  DefaultLabelPaddingBottom,
		}},
	}
}

// Clone returns a deep copy sharing no memory with s.
func (s State) Clone() State {
	out := s
	out.Candles = model.CloneCandles(s.Candles)
	out.MissedCandles = model.CloneCandles(s.MissedCandles)
	if s.Viewport != nil {
		v := *s.Viewport
		out.Viewport = &v
	}
	if s.Crosshair != nil {
		c := *s.Crosshair
		out.Crosshair = &c
	}
	out.Drawings = drawing.CloneAll(s.Drawings)
	if s.CurrentDrawing != nil {
		d := s.CurrentDrawing.Clone()
		out.CurrentDrawing = &d
	}
	if s.Indicators != nil {
		out.Indicators = make([]indicator.Series, len(s.Indicators))
		for i, ind := range s.Indicators {
			out.Indicators[i] = ind.Clone()
		}
	}
	if s.Theme != nil {
		t := *s.Theme
		out.Theme = &t
	}
	return out
}

// LastCandle returns the newest candle.
func (s State) LastCandle() (model.Candle, bool) {
	if len(s.Candles) == 0 {
		return model.Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// WithViewport returns s with a private copy of v.
func (s State) WithViewport(v viewport.Viewport) State {
	s.Viewport = &v
	return s
}

// Upsert returns a new slice with c replacing the tail when timestamps match,
// or appended after it. The input slice is never written.
func Upsert(candles []model.Candle, c model.Candle) ([]model.Candle, bool) {
	n := len(candles)
	if n > 0 && candles[n-1].Timestamp == c.Timestamp {
		out := slices.Clone(candles)
		out[n-1] = c
		return out, false
	}
	return append(slices.Clip(candles), c), true
}

// Merge appends buffered candles in arrival order, each upserted against the
// tail. It returns a new slice.
func Merge(candles, buffered []model.Candle) []model.Candle {
	out := slices.Clone(candles)
	for _, c := range buffered {
		if n := len(out); n > 0 && out[n-1].Timestamp == c.Timestamp {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
