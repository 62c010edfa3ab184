package viewport

import (
	"math"
	"testing"

	"chartengine/internal/model"
)

func testViewport() Viewport {
	return Viewport{From: 1000, To: 2000, WidthPx: 800, HeightPx: 600}
}

func makeCandles(n int, start, step int64) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		out[i] = model.Candle{
			Timestamp: start + int64(i)*step,
			Open:      100, High: 105, Low: 99, Close: 103, Volume: 1000,
		}
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6*math.Max(1, math.Abs(b))
}

func TestTimeToX(t *testing.T) {
	v := testViewport()
	cases := []struct{ t, want float64 }{
		{1000, 0},
		{2000, 800},
		{1500, 400},
	}
	for _, tc := range cases {
		if got := TimeToX(tc.t, v); got != tc.want {
			t.Errorf("TimeToX(%v) = %v, want %v", tc.t, got, tc.want)
		}
	}
}

func TestPriceToY(t *testing.T) {
	v := testViewport()
	cases := []struct{ price, want float64 }{
		{200, 0},
		{100, 600},
		{150, 300},
	}
	for _, tc := range cases {
		if got := PriceToY(tc.price, v, 100, 200); got != tc.want {
			t.Errorf("PriceToY(%v) = %v, want %v", tc.price, got, tc.want)
		}
	}
}

func TestInverseRoundTrip(t *testing.T) {
	viewports := []Viewport{
		testViewport(),
		{From: -5000, To: 12345.5, WidthPx: 1337, HeightPx: 421},
		{From: 1.7e12, To: 1.7e12 + 3.6e6, WidthPx: 1920, HeightPx: 1080},
	}
	for _, v := range viewports {
		for _, ts := range []float64{v.From, v.To, (v.From + v.To) / 2, v.From - 777, v.To + 999} {
			if got := XToTime(TimeToX(ts, v), v); !approx(got, ts) {
				t.Errorf("time round trip: got %v, want %v", got, ts)
			}
		}
		for _, p := range []float64{90, 100, 150.25, 200, 215} {
			if got := YToPrice(PriceToY(p, v, 100, 200), v, 100, 200); !approx(got, p) {
				t.Errorf("price round trip: got %v, want %v", got, p)
			}
		}
	}
}

func TestDegenerateMappings(t *testing.T) {
	flat := Viewport{From: 1000, To: 1000, WidthPx: 800, HeightPx: 600}
	if got := TimeToX(1500, flat); got != 0 {
		t.Errorf("zero span TimeToX: got %v, want 0", got)
	}
	zeroW := Viewport{From: 1000, To: 2000}
	if got := XToTime(50, zeroW); got != 1000 {
		t.Errorf("zero width XToTime: got %v, want 1000", got)
	}
	if got := PriceToY(5, testViewport(), 10, 10); got != 0 {
		t.Errorf("zero price span PriceToY: got %v, want 0", got)
	}
	if got := YToPrice(5, zeroW, 10, 20); got != 10 {
		t.Errorf("zero height YToPrice: got %v, want 10", got)
	}
	if got := Pan(zeroW, 100); got != zeroW {
		t.Errorf("zero width pan should be a no-op, got %+v", got)
	}
}

func TestPan(t *testing.T) {
	v := testViewport()

	right := Pan(v, 100)
	if right.From != 875 || right.To != 1875 {
		t.Errorf("content-right pan: got [%v, %v], want [875, 1875]", right.From, right.To)
	}
	left := Pan(v, -100)
	if left.From != 1125 || left.To != 2125 {
		t.Errorf("content-left pan: got [%v, %v], want [1125, 2125]", left.From, left.To)
	}
	if right.WidthPx != v.WidthPx || right.HeightPx != v.HeightPx {
		t.Error("pan must not change pixel size")
	}
}

func TestZoom_Span(t *testing.T) {
	v := testViewport()

	in := Zoom(v, 2, 1500)
	if in.Span() != 500 {
		t.Errorf("zoom in: span %v, want 500", in.Span())
	}
	if !(in.From < 1500 && in.To > 1500) {
		t.Errorf("zoom in should keep anchor inside, got [%v, %v]", in.From, in.To)
	}

	out := Zoom(v, 0.5, 1500)
	if out.Span() != 2000 {
		t.Errorf("zoom out: span %v, want 2000", out.Span())
	}
}

func TestZoom_AnchorFixedAndReversible(t *testing.T) {
	v := testViewport()
	for _, anchor := range []float64{1000, 1200, 1500, 1999} {
		for _, f := range []float64{1.1, 2, 0.3, 7.5} {
			z := Zoom(v, f, anchor)
			if !approx(TimeToX(anchor, z), TimeToX(anchor, v)) {
				t.Errorf("anchor %v f=%v moved: %v -> %v", anchor, f, TimeToX(anchor, v), TimeToX(anchor, z))
			}
			back := Zoom(z, 1/f, anchor)
			if !approx(back.From, v.From) || !approx(back.To, v.To) {
				t.Errorf("anchor %v f=%v: round trip got [%v, %v]", anchor, f, back.From, back.To)
			}
		}
	}
}

func TestZoom_InvalidFactor(t *testing.T) {
	v := testViewport()
	for _, f := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := Zoom(v, f, 1500); got != v {
			t.Errorf("factor %v should be a no-op, got %+v", f, got)
		}
	}
}

func TestClamp(t *testing.T) {
	v := testViewport()

	shifted := Clamp(v, 1200, 5000)
	if shifted.From != 1200 || shifted.To != 2200 {
		t.Errorf("clamp left: got [%v, %v], want [1200, 2200]", shifted.From, shifted.To)
	}

	shifted = Clamp(v, 0, 1800)
	if shifted.From != 800 || shifted.To != 1800 {
		t.Errorf("clamp right: got [%v, %v], want [800, 1800]", shifted.From, shifted.To)
	}

	full := Clamp(v, 1100, 1600)
	if full.From != 1100 || full.To != 1600 {
		t.Errorf("oversized: got [%v, %v], want [1100, 1600]", full.From, full.To)
	}
}

func TestZoomWithBounds_ClampsToData(t *testing.T) {
	candles := makeCandles(10, 1000, 100) // 1000..1900
	v := Viewport{From: 1000, To: 1900, WidthPx: 800, HeightPx: 600}

	out := ZoomWithBounds(v, 0.1, 1450, candles, ZoomLimits{TimePadding: 0.1})
	if out.From < 910-1e-9 || out.To > 1990+1e-9 {
		t.Errorf("zoom out should stay within padded data range, got [%v, %v]", out.From, out.To)
	}
}

func TestZoomWithBounds_CandleWidthLimits(t *testing.T) {
	candles := makeCandles(200, 0, 1000)
	v := Viewport{From: 50000, To: 150000, WidthPx: 800, HeightPx: 600}
	limits := ZoomLimits{MinCandlePx: 2, MaxCandlePx: 40, TimePadding: 0.1}

	in := ZoomWithBounds(v, 1000, 100000, candles, limits)
	w := 1000 / in.Span() * in.WidthPx * FillRatio
	if w > 40+1e-9 {
		t.Errorf("candle width %v exceeds max 40", w)
	}

	out := ZoomWithBounds(v, 0.0001, 100000, candles, limits)
	w = 1000 / out.Span() * out.WidthPx * FillRatio
	if w < 2-1e-9 {
		t.Errorf("candle width %v below min 2", w)
	}
}

func TestPanToLatestAndIsAtLatest(t *testing.T) {
	candles := makeCandles(3, 1000, 1000) // last = 3000
	v := Viewport{From: 500, To: 1500, WidthPx: 800, HeightPx: 600}

	if IsAtLatest(v, candles, DefaultLivePadding) {
		t.Fatal("viewport ending at 1500 should not be at latest")
	}
	live := PanToLatest(v, candles, DefaultLivePadding)
	if live.Span() != v.Span() {
		t.Errorf("span changed: %v -> %v", v.Span(), live.Span())
	}
	if live.To != 3050 {
		t.Errorf("right edge: got %v, want 3050", live.To)
	}
	if !IsAtLatest(live, candles, DefaultLivePadding) {
		t.Error("panned viewport should be at latest")
	}

	if !IsAtLatest(Viewport{From: 1000, To: 3100}, candles, DefaultLivePadding) {
		t.Error("[1000,3100] should be at latest")
	}
	if IsAtLatest(Viewport{From: 1000, To: 2500}, candles, DefaultLivePadding) {
		t.Error("[1000,2500] should not be at latest")
	}

	// Exact boundary: right edge plus tolerance equals the last timestamp.
	boundary := Viewport{From: -1200, To: 2800}
	if !IsAtLatest(boundary, candles, DefaultLivePadding) {
		t.Errorf("boundary viewport should count as at latest: %+v", boundary)
	}
}

func TestVisible(t *testing.T) {
	candles := []model.Candle{{Timestamp: 500}, {Timestamp: 1500}, {Timestamp: 2500}}
	got := Visible(candles, testViewport(), 0.05)
	if len(got) != 1 || got[0].Timestamp != 1500 {
		t.Fatalf("expected only ts=1500 visible, got %+v", got)
	}
	if Visible(candles, Viewport{From: 3000, To: 4000}, 0) != nil {
		t.Error("expected nil for a window with no candles")
	}
}

func TestInitialCandleCount(t *testing.T) {
	cases := []struct {
		w    float64
		want int
	}{
		{0, 20}, {100, 20}, {800, 100}, {4000, 200},
	}
	for _, tc := range cases {
		if got := InitialCandleCount(tc.w); got != tc.want {
			t.Errorf("InitialCandleCount(%v) = %d, want %d", tc.w, got, tc.want)
		}
	}
}

func TestFromLastCandles(t *testing.T) {
	candles := makeCandles(50, 0, 1000)
	v, ok := FromLastCandles(candles, 10, 800, 600)
	if !ok {
		t.Fatal("expected viewport")
	}
	// Last 10: 40000..49000, span 9000, pad 900.
	if v.From != 39100 || v.To != 49900 {
		t.Errorf("got [%v, %v], want [39100, 49900]", v.From, v.To)
	}

	single, _ := FromCandles(candles[:1], 800, 600)
	if single.From != -MinTimePaddingMs || single.To != MinTimePaddingMs {
		t.Errorf("zero-span data should use the absolute floor, got [%v, %v]", single.From, single.To)
	}
}

func TestPadPriceRange(t *testing.T) {
	lo, hi := PadPriceRange(100, 200, DefaultPricePadding)
	if lo != 95 || hi != 205 {
		t.Errorf("got [%v, %v], want [95, 205]", lo, hi)
	}
	lo, hi = PadPriceRange(0, 0, DefaultPricePadding)
	if lo != -1 || hi != 1 {
		t.Errorf("flat zero range: got [%v, %v], want [-1, 1]", lo, hi)
	}
}
