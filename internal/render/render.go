// Package render paints a chart state onto an abstract drawing surface.
package render

import (
	"log/slog"

	"chartengine/internal/drawing"
	"chartengine/internal/grid"
	"chartengine/internal/indicator"
	"chartengine/internal/layout"
	"chartengine/internal/state"
	"chartengine/internal/theme"
	"chartengine/internal/viewport"
)

// Surface is the 2D paint target. Colors are "#rrggbb" strings and
// coordinates are surface pixels with the origin at the top left.
type Surface interface {
	Size() (width, height float64)
	Clear(color string)
	FillRect(x, y, w, h float64, color string)
	Line(x0, y0, x1, y1, width float64, color string)
	Text(x, y float64, s, color string)
}

const (
	minPriceSpacingPx = 50
	minTimeSpacingPx  = 100
)

// Renderer draws chart states onto a Surface.
type Renderer struct {
	surface Surface
	logger  *slog.Logger
	frames  uint64
}

// New creates a renderer; a nil logger means slog.Default().
func New(surface Surface, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{surface: surface, logger: logger}
}

// Surface returns the paint target.
func (r *Renderer) Surface() Surface { return r.surface }

// Frames returns how many frames have been painted.
func (r *Renderer) Frames() uint64 { return r.frames }

// plot maps data coordinates to surface pixels for one frame.
type plot struct {
	v      viewport.Viewport
	ox, oy float64
	lo, hi float64
}

func (p plot) x(t float64) float64 { return p.ox + viewport.TimeToX(t, p.v) }
func (p plot) y(price float64) float64 {
	return p.oy + viewport.PriceToY(price, p.v, p.lo, p.hi)
}

// Render paints s. Without a viewport only the background is drawn.
func (r *Renderer) Render(s state.State) {
	r.frames++
	th := theme.Default()
	if s.Theme != nil {
		th = *s.Theme
	}
	r.surface.Clear(th.Background)

	if s.Viewport == nil {
		return
	}
	if !s.Viewport.Valid() {
		r.logger.Debug("skip frame: degenerate viewport",
			"from", s.Viewport.From, "to", s.Viewport.To,
			"width", s.Viewport.WidthPx, "height", s.Viewport.HeightPx)
		return
	}
	v := *s.Viewport
	lo, hi, ok := layout.PriceRange(s.Candles, v)
	if !ok {
		lo, hi = viewport.PadPriceRange(0, 0, viewport.DefaultPricePadding)
	}
	ox, oy := s.Layout.Origin()
	p := plot{v: v, ox: ox, oy: oy, lo: lo, hi: hi}

	r.drawGrid(p, th, s.Layout.LabelPadding.Enabled)
	r.drawCandles(p, s, th)
	r.drawIndicators(p, s.Indicators, th)
	r.drawShapes(p, s, th)
	r.drawCrosshair(p, s.Crosshair, th)
	r.drawAxes(p, th)
}

func (r *Renderer) drawGrid(p plot, th theme.Theme, labels bool) {
	v := p.v
	lines := grid.OptimalLineCount(p.hi-p.lo, v.HeightPx, minPriceSpacingPx)
	step := grid.PriceInterval(p.lo, p.hi, lines)
	for _, price := range grid.PriceLevels(p.lo, p.hi, step) {
		y := p.y(price)
		r.surface.Line(p.ox, y, p.ox+v.WidthPx, y, 1, th.Grid)
		if labels {
			r.surface.Text(4, y+4, grid.FormatPrice(price), th.Text)
		}
	}

	lines = grid.OptimalLineCount(v.Span(), v.WidthPx, minTimeSpacingPx)
	tstep := grid.TimeInterval(v.From, v.To, lines)
	for _, ts := range grid.TimeLevels(v.From, v.To, tstep) {
		x := p.x(ts)
		r.surface.Line(x, p.oy, x, p.oy+v.HeightPx, 1, th.Grid)
		if labels {
			r.surface.Text(x-24, p.oy+v.HeightPx+18, grid.FormatTime(ts, tstep), th.Text)
		}
	}
}

func (r *Renderer) drawCandles(p plot, s state.State, th theme.Theme) {
	for _, rc := range layout.ComputeCandleRects(s.Candles, p.v, p.lo, p.hi) {
		color := th.CandleDown
		if rc.Up {
			color = th.CandleUp
		}
		r.surface.Line(p.ox+rc.CenterX, p.oy+rc.HighY, p.ox+rc.CenterX, p.oy+rc.LowY, 1, color)
		r.surface.FillRect(p.ox+rc.X, p.oy+rc.Y, rc.W, rc.H, color)
	}
}

// drawIndicators plots price overlays. RSI lives on its own 0..100 scale and
// would need a separate pane, so it is not drawn over the candles.
func (r *Renderer) drawIndicators(p plot, series []indicator.Series, th theme.Theme) {
	for _, s := range series {
		if s.Spec.Kind == indicator.KindRSI {
			continue
		}
		for i := 1; i < len(s.Values) && i < len(s.Timestamps); i++ {
			r.surface.Line(
				p.x(float64(s.Timestamps[i-1])), p.y(s.Values[i-1]),
				p.x(float64(s.Timestamps[i])), p.y(s.Values[i]),
				1.5, th.Indicator,
			)
		}
	}
}

func (r *Renderer) drawShapes(p plot, s state.State, th theme.Theme) {
	for _, sh := range s.Drawings {
		r.drawShape(p, sh, th.Drawing)
	}
	if s.CurrentDrawing != nil {
		r.drawShape(p, *s.CurrentDrawing, th.Drawing)
	}
}

func (r *Renderer) drawShape(p plot, sh drawing.Shape, color string) {
	if len(sh.Points) == 0 {
		return
	}
	if sh.Kind == drawing.Horizontal {
		y := p.y(sh.Points[0].Price)
		r.surface.Line(p.ox, y, p.ox+p.v.WidthPx, y, 1, color)
		return
	}
	for i := 1; i < len(sh.Points); i++ {
		a, b := sh.Points[i-1], sh.Points[i]
		r.surface.Line(p.x(a.Time), p.y(a.Price), p.x(b.Time), p.y(b.Price), 1.5, color)
	}
}

func (r *Renderer) drawCrosshair(p plot, c *state.Crosshair, th theme.Theme) {
	if c == nil {
		return
	}
	x, y := p.ox+c.X, p.oy+c.Y
	r.surface.Line(x, p.oy, x, p.oy+p.v.HeightPx, 1, th.Crosshair)
	r.surface.Line(p.ox, y, p.ox+p.v.WidthPx, y, 1, th.Crosshair)

	price := viewport.YToPrice(c.Y, p.v, p.lo, p.hi)
	r.surface.Text(p.ox+p.v.WidthPx-60, y-4, grid.FormatPrice(price), th.Text)
}

func (r *Renderer) drawAxes(p plot, th theme.Theme) {
	bottom := p.oy + p.v.HeightPx
	r.surface.Line(p.ox, bottom, p.ox+p.v.WidthPx, bottom, 1, th.Axis)
	r.surface.Line(p.ox, p.oy, p.ox, bottom, 1, th.Axis)
}
