package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidCandle is returned for candles violating the OHLCV invariants.
	ErrInvalidCandle = errors.New("invalid candle")

	// ErrOutOfOrder is returned when a candle does not extend a series strictly forward in time.
	ErrOutOfOrder = errors.New("candle out of order")
)

// Candle is one OHLCV bar. Timestamp is the bucket start in Unix milliseconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// IsUp reports whether the candle did not close below its open. Dojis
// count as up.
func (c Candle) IsUp() bool {
	return c.Close >= c.Open
}

// Validate checks high/low bracket open and close, prices are finite and volume is non-negative.
func (c Candle) Validate() error {
	for _, v := range [...]float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at ts=%d", ErrInvalidCandle, c.Timestamp)
		}
	}
	if c.High < math.Max(c.Open, math.Max(c.Close, c.Low)) {
		return fmt.Errorf("%w: high %.4f below body at ts=%d", ErrInvalidCandle, c.High, c.Timestamp)
	}
	if c.Low > math.Min(c.Open, math.Min(c.Close, c.High)) {
		return fmt.Errorf("%w: low %.4f above body at ts=%d", ErrInvalidCandle, c.Low, c.Timestamp)
	}
	if c.Volume < 0 {
		return fmt.Errorf("%w: negative volume at ts=%d", ErrInvalidCandle, c.Timestamp)
	}
	return nil
}

// ValidateSeries checks every candle and that timestamps strictly increase.
func ValidateSeries(candles []Candle) error {
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return err
		}
		if i > 0 && c.Timestamp <= candles[i-1].Timestamp {
			return fmt.Errorf("%w: ts=%d after ts=%d", ErrOutOfOrder, c.Timestamp, candles[i-1].Timestamp)
		}
	}
	return nil
}

// CloneCandles returns an independent copy of the slice (nil stays nil).
func CloneCandles(candles []Candle) []Candle {
	if candles == nil {
		return nil
	}
	out := make([]Candle, len(candles))
	copy(out, candles)
	return out
}
