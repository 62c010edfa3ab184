// Package agg builds OHLCV candles from a stream of ticks.
package agg

import (
	"fmt"

	"chartengine/internal/model"
)

// DropReason tells why a tick was not folded into a candle.
type DropReason string

const (
	DropLate    DropReason = "late"    // tick belongs to a bucket older than the open one
	DropInvalid DropReason = "invalid" // non-finite price or bad volume
)

// candleState holds the in-progress candle for the currently open bucket.
type candleState struct {
	bucket int64 // bucket start, Unix ms
	candle model.Candle
}

// Aggregator buckets ticks into candles of one timeframe.
// It is not goroutine-safe: the engine loop owns it and feeds it serially.
type Aggregator struct {
	tf       model.Timeframe
	bucketMs int64
	open     *candleState

	// OnCandleClosed receives the final OHLCV of a bucket when a tick for a
	// later bucket arrives, before that tick's OnCandleUpdated.
	OnCandleClosed func(c model.Candle)
	// OnCandleUpdated receives a copy of the open candle after every accepted tick.
	OnCandleUpdated func(c model.Candle)
	// OnDroppedTick is called for every rejected tick (optional).
	OnDroppedTick func(reason DropReason)
}

// New creates an aggregator for tf. A malformed timeframe is a configuration error.
func New(tf model.Timeframe) (*Aggregator, error) {
	ms, err := tf.Millis()
	if err != nil {
		return nil, fmt.Errorf("agg: %w", err)
	}
	return &Aggregator{tf: tf, bucketMs: ms}, nil
}

// Timeframe returns the bucket granularity.
func (a *Aggregator) Timeframe() model.Timeframe { return a.tf }

// Ingest incorporates a single tick.
func (a *Aggregator) Ingest(tick model.Tick) {
	if !tick.Valid() {
		a.drop(DropInvalid)
		return
	}
	bucket := model.BucketStart(tick.T, a.bucketMs)

	if a.open != nil && bucket < a.open.bucket {
		a.drop(DropLate)
		return
	}

	if a.open != nil && bucket > a.open.bucket {
		// New bucket: finalize the old candle first.
		closed := a.open.candle
		a.open = nil
		if a.OnCandleClosed != nil {
			a.OnCandleClosed(closed)
		}
	}

	if a.open == nil {
		a.open = &candleState{
			bucket: bucket,
			candle: model.Candle{
				Timestamp: bucket,
				Open:      tick.Price,
				High:      tick.Price,
				Low:       tick.Price,
				Close:     tick.Price,
				Volume:    tick.Volume,
			},
		}
	} else {
		c := &a.open.candle
		if tick.Price > c.High {
			c.High = tick.Price
		}
		if tick.Price < c.Low {
			c.Low = tick.Price
		}
		c.Close = tick.Price
		c.Volume += tick.Volume
	}

	if a.OnCandleUpdated != nil {
		a.OnCandleUpdated(a.open.candle) // value copy, no pointer fields
	}
}

// Current returns a copy of the open candle, if any.
func (a *Aggregator) Current() (model.Candle, bool) {
	if a.open == nil {
		return model.Candle{}, false
	}
	return a.open.candle, true
}

// Flush closes the open bucket, emitting it through OnCandleClosed.
func (a *Aggregator) Flush() {
	if a.open == nil {
		return
	}
	closed := a.open.candle
	a.open = nil
	if a.OnCandleClosed != nil {
		a.OnCandleClosed(closed)
	}
}

// Reset discards the open bucket without emitting it.
func (a *Aggregator) Reset() {
	a.open = nil
}

func (a *Aggregator) drop(reason DropReason) {
	if a.OnDroppedTick != nil {
		a.OnDroppedTick(reason)
	}
}
