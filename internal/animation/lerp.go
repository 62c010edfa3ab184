// Package animation blends between chart states over a fixed duration and
// drives the per-frame render loop.
package animation

import (
	"chartengine/internal/model"
	"chartengine/internal/state"
	"chartengine/internal/viewport"
)

// Lerp interpolates linearly from a (t=0) to b (t=1).
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpCandle interpolates OHLC; timestamp and volume come from next.
func LerpCandle(prev, next model.Candle, t float64) model.Candle {
	return model.Candle{
		Timestamp: next.Timestamp,
		Open:      Lerp(prev.Open, next.Open, t),
		High:      Lerp(prev.High, next.High, t),
		Low:       Lerp(prev.Low, next.Low, t),
		Close:     Lerp(prev.Close, next.Close, t),
		Volume:    next.Volume,
	}
}

// LerpViewport interpolates the time range; pixel size snaps to next.
func LerpViewport(prev, next viewport.Viewport, t float64) viewport.Viewport {
	return viewport.Viewport{
		From:     Lerp(prev.From, next.From, t),
		To:       Lerp(prev.To, next.To, t),
		WidthPx:  next.WidthPx,
		HeightPx: next.HeightPx,
	}
}

// LerpState blends prev into next. Only the tail candle and the viewport
// range move; the candle count and every other field come from next.
// When next has more candles than prev, the new tail grows out of prev's
// last candle. The result owns its candle slice and viewport.
func LerpState(prev, next state.State, t float64) state.State {
	out := next
	n, p := len(next.Candles), len(prev.Candles)
	if n > 0 {
		out.Candles = model.CloneCandles(next.Candles)
		switch {
		case p == n:
			out.Candles[n-1] = LerpCandle(prev.Candles[p-1], next.Candles[n-1], t)
		case p > 0 && n > p:
			out.Candles[n-1] = LerpCandle(prev.Candles[p-1], next.Candles[n-1], t)
		}
	}
	if prev.Viewport != nil && next.Viewport != nil {
		v := LerpViewport(*prev.Viewport, *next.Viewport, t)
		out.Viewport = &v
	}
	return out
}
