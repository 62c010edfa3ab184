package autoscroll

import (
	"testing"

	"chartengine/internal/model"
	"chartengine/internal/viewport"
)

func candlesAt(ts ...int64) []model.Candle {
	out := make([]model.Candle, len(ts))
	for i, t := range ts {
		out[i] = model.Candle{Timestamp: t, Open: 1, High: 1, Low: 1, Close: 1}
	}
	return out
}

func TestDisable(t *testing.T) {
	if New().Disable() {
		t.Fatal("Disable must return false")
	}
}

func TestScrollToLive(t *testing.T) {
	c := New()
	v := viewport.Viewport{From: 0, To: 1000, WidthPx: 800, HeightPx: 600}

	got, enabled := c.ScrollToLive(v, candlesAt(1000, 2000, 3000))
	if !enabled {
		t.Error("ScrollToLive must enable following")
	}
	if got.To != 3050 || got.From != 2050 {
		t.Errorf("got [%v, %v], want [2050, 3050]", got.From, got.To)
	}

	same, enabled := c.ScrollToLive(v, nil)
	if !enabled || same != v {
		t.Errorf("empty candles: got %+v enabled=%v", same, enabled)
	}
}

func TestUpdate(t *testing.T) {
	c := New()
	candles := candlesAt(1000, 2000, 3000)

	tests := []struct {
		name    string
		enabled bool
		v       viewport.Viewport
		want    bool
	}{
		{"already enabled stays enabled", true, viewport.Viewport{From: 0, To: 100}, true},
		{"away from edge stays disabled", false, viewport.Viewport{From: 1000, To: 2500}, false},
		{"at edge re-enables", false, viewport.Viewport{From: 1000, To: 3100}, true},
		{"no candles", false, viewport.Viewport{From: 1000, To: 3100}, false},
	}
	for _, tt := range tests {
		cs := candles
		if tt.name == "no candles" {
			cs = nil
		}
		if got := c.Update(tt.enabled, tt.v, cs); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFollow(t *testing.T) {
	c := New()
	v := viewport.Viewport{From: 0, To: 1000}
	candles := candlesAt(5000)

	if got := c.Follow(false, v, candles); got != v {
		t.Errorf("disabled follow moved viewport: %+v", got)
	}
	if got := c.Follow(true, v, candles); got.To != 5050 {
		t.Errorf("enabled follow: To=%v, want 5050", got.To)
	}
}
