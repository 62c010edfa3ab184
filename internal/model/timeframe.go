package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrInvalidTimeframe is returned for identifiers not matching ^\d+[smhd]$.
var ErrInvalidTimeframe = errors.New("invalid timeframe")

var timeframeRe = regexp.MustCompile(`^(\d+)([smhd])$`)

var unitMillis = map[string]int64{
	"s": 1000,
	"m": 60 * 1000,
	"h": 60 * 60 * 1000,
	"d": 24 * 60 * 60 * 1000,
}

// Timeframe is a bucket granularity identifier such as "1m", "15m" or "4h".
type Timeframe string

// ParseTimeframe validates s and returns it as a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, err := tf.Millis(); err != nil {
		return "", err
	}
	return tf, nil
}

// Millis returns the bucket size in milliseconds.
func (tf Timeframe) Millis() (int64, error) {
	m := timeframeRe.FindStringSubmatch(string(tf))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, string(tf))
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeframe, string(tf))
	}
	unit := unitMillis[m[2]]
	if n > math.MaxInt64/unit {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidTimeframe, string(tf))
	}
	return n * unit, nil
}

func (tf Timeframe) String() string { return string(tf) }

// BucketStart floors t (Unix ms) to the start of its bucket of size ms.
func BucketStart(t, ms int64) int64 {
	if ms <= 0 {
		return t
	}
	b := t - t%ms
	if t%ms < 0 {
		b -= ms
	}
	return b
}
