package viewport

import (
	"math"

	"chartengine/internal/model"
)

const (
	// DefaultPricePadding is the fraction added above and below the price range.
	DefaultPricePadding = 0.05

	// DefaultTimePadding is the fraction added before and after the data time range.
	DefaultTimePadding = 0.1

	// MinTimePaddingMs is used when the data time span is zero.
	MinTimePaddingMs = 60000
)

// TimeRange returns the min and max candle timestamps.
func TimeRange(candles []model.Candle) (minTime, maxTime float64, ok bool) {
	if len(candles) == 0 {
		return 0, 0, false
	}
	minTime = float64(candles[0].Timestamp)
	maxTime = minTime
	for _, c := range candles[1:] {
		ts := float64(c.Timestamp)
		minTime = math.Min(minTime, ts)
		maxTime = math.Max(maxTime, ts)
	}
	return minTime, maxTime, true
}

// DataTimeRange returns the candle time range padded by pct of its span on
// both sides, or by MinTimePaddingMs when the span is zero.
func DataTimeRange(candles []model.Candle, pct float64) (minTime, maxTime float64, ok bool) {
	lo, hi, ok := TimeRange(candles)
	if !ok {
		return 0, 0, false
	}
	pad := (hi - lo) * pct
	if hi-lo <= 0 {
		pad = MinTimePaddingMs
	}
	return lo - pad, hi + pad, true
}

// PriceRange returns the lowest low and highest high of the candles.
func PriceRange(candles []model.Candle) (minPrice, maxPrice float64, ok bool) {
	if len(candles) == 0 {
		return 0, 0, false
	}
	minPrice, maxPrice = candles[0].Low, candles[0].High
	for _, c := range candles[1:] {
		minPrice = math.Min(minPrice, c.Low)
		maxPrice = math.Max(maxPrice, c.High)
	}
	return minPrice, maxPrice, true
}

// PadPriceRange widens [minPrice, maxPrice] by pct of its span on both sides.
// A flat range is widened by pct of its magnitude (or 1 at zero).
func PadPriceRange(minPrice, maxPrice, pct float64) (float64, float64) {
	span := maxPrice - minPrice
	pad := span * pct
	if span <= 0 {
		pad = math.Abs(maxPrice) * pct
		if pad == 0 {
			pad = 1
		}
	}
	return minPrice - pad, maxPrice + pad
}
