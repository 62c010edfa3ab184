// Package grid computes axis grid levels and their labels.
package grid

import (
	"math"
	"strconv"
	"time"
)

const (
	// MaxLevels caps level generation; larger requests yield no levels.
	MaxLevels = 1000

	// DefaultTimeInterval is returned for degenerate time spans.
	DefaultTimeInterval int64 = 60_000

	defaultLines = 5
	minLines     = 3
	maxLines     = 20
)

var timeIntervals = []int64{
	1_000,
	5_000,
	15_000,
	30_000,
	60_000,
	5 * 60_000,
	15 * 60_000,
	30 * 60_000,
	60 * 60_000,
	4 * 60 * 60_000,
	24 * 60 * 60_000,
}

func finite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// PriceInterval picks a 1/2/5 x 10^k step giving about targetLines lines.
// Degenerate input returns 1.
func PriceInterval(minPrice, maxPrice float64, targetLines int) float64 {
	span := maxPrice - minPrice
	if span <= 0 || targetLines <= 0 || !finite(minPrice, maxPrice, span) {
		return 1
	}
	raw := span / float64(targetLines)
	if raw <= 0 || !finite(raw) {
		return 1
	}

	magnitude := math.Pow(10, math.Floor(math.Log10(raw)))
	var nice float64
	switch n := raw / magnitude; {
	case n <= 1:
		nice = 1
	case n <= 2:
		nice = 2
	case n <= 5:
		nice = 5
	default:
		nice = 10
	}
	return nice * magnitude
}

// PriceLevels returns multiples of interval inside [minPrice, maxPrice].
func PriceLevels(minPrice, maxPrice, interval float64) []float64 {
	return levels(minPrice, maxPrice, interval)
}

// TimeInterval returns the largest ladder step not above span/targetLines.
func TimeInterval(from, to float64, targetLines int) int64 {
	span := to - from
	if span <= 0 || targetLines <= 0 || !finite(from, to, span) {
		return DefaultTimeInterval
	}
	raw := span / float64(targetLines)
	for i := len(timeIntervals) - 1; i >= 0; i-- {
		if float64(timeIntervals[i]) <= raw {
			return timeIntervals[i]
		}
	}
	return timeIntervals[0]
}

// TimeLevels returns multiples of interval inside [from, to].
func TimeLevels(from, to float64, interval int64) []float64 {
	return levels(from, to, float64(interval))
}

func levels(lo, hi, interval float64) []float64 {
	if interval <= 0 || !finite(lo, hi, interval) || lo >= hi {
		return nil
	}
	if math.Ceil((hi-lo)/interval)+1 > MaxLevels {
		return nil
	}
	start := math.Ceil(lo/interval) * interval
	var out []float64
	for v := start; v <= hi && len(out) < MaxLevels; v = start + float64(len(out))*interval {
		out = append(out, v)
	}
	return out
}

// OptimalLineCount fits as many lines as minSpacingPx allows, within [3, 20].
func OptimalLineCount(span, dimensionPx, minSpacingPx float64) int {
	if span <= 0 || dimensionPx <= 0 || minSpacingPx <= 0 {
		return defaultLines
	}
	n := int(math.Floor(dimensionPx / minSpacingPx))
	if n > maxLines {
		n = maxLines
	}
	if n < minLines {
		n = minLines
	}
	return n
}

// FormatPrice renders a price label with K/M suffixes above 1e3/1e6.
func FormatPrice(price float64) string {
	switch {
	case price >= 1_000_000:
		return strconv.FormatFloat(price/1_000_000, 'f', 2, 64) + "M"
	case price >= 1_000:
		return strconv.FormatFloat(price/1_000, 'f', 2, 64) + "K"
	default:
		return strconv.FormatFloat(price, 'f', 2, 64)
	}
}

// FormatTime renders a UTC time label whose precision follows the grid step.
func FormatTime(ts float64, interval int64) string {
	t := time.UnixMilli(int64(ts)).UTC()
	switch {
	case interval >= 24*60*60_000:
		return t.Format("2006-01-02")
	case interval >= 60*60_000:
		return t.Format("15:04")
	default:
		return t.Format("15:04:05")
	}
}
