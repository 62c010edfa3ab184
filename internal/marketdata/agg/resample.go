package agg

import (
	"fmt"

	"chartengine/internal/model"
)

// AggregateCandles resamples base candles into target-timeframe candles.
// Each bucket takes the open of its first candle, the close of its last,
// the high/low extrema and the summed volume. Buckets are returned in the
// order they first appear; input is expected sorted by timestamp.
func AggregateCandles(base []model.Candle, target model.Timeframe) ([]model.Candle, error) {
	ms, err := target.Millis()
	if err != nil {
		return nil, fmt.Errorf("agg: %w", err)
	}
	if len(base) == 0 {
		return nil, nil
	}

	index := make(map[int64]int, len(base))
	out := make([]model.Candle, 0, len(base))

	for _, c := range base {
		bucket := model.BucketStart(c.Timestamp, ms)
		i, ok := index[bucket]
		if !ok {
			index[bucket] = len(out)
			out = append(out, model.Candle{
				Timestamp: bucket,
				Open:      c.Open,
				High:      c.High,
				Low:       c.Low,
				Close:     c.Close,
				Volume:    c.Volume,
			})
			continue
		}

		// Same bucket: merge OHLCV.
		fc := &out[i]
		if c.High > fc.High {
			fc.High = c.High
		}
		if c.Low < fc.Low {
			fc.Low = c.Low
		}
		fc.Close = c.Close
		fc.Volume += c.Volume
	}
	return out, nil
}
