// Package indicator provides technical indicator calculations over candle data.
//
// Indicators are streaming: each Update folds one close price in O(1).
// A Registry holds the configured indicators of a chart by stable id and
// recomputes full series for rendering.
package indicator

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnknownIndicator is returned when an id or kind is not registered.
	ErrUnknownIndicator = errors.New("unknown indicator")
	// ErrInvalidPeriod is returned for a period below 1.
	ErrInvalidPeriod = errors.New("invalid indicator period")
	// ErrDuplicateID is returned when adding an id that is already registered.
	ErrDuplicateID = errors.New("duplicate indicator id")
)

// Indicator folds closes one at a time.
type Indicator interface {
	// Update feeds the next close price.
	Update(close float64)

	// Value returns the current value. Returns 0 if not enough data.
	Value() float64

	// Ready returns true once enough data has been accumulated.
	Ready() bool
}

// Kind tags an indicator variant.
type Kind string

const (
	KindSMA  Kind = "SMA"
	KindEMA  Kind = "EMA"
	KindRSI  Kind = "RSI"
	KindSMMA Kind = "SMMA"
)

// Spec selects an indicator variant and its parameters.
type Spec struct {
	Kind   Kind `json:"kind"`
	Period int  `json:"period"`
}

// Validate checks the kind and period.
func (s Spec) Validate() error {
	switch s.Kind {
	case KindSMA, KindEMA, KindRSI, KindSMMA:
	default:
		return fmt.Errorf("%w: kind %q", ErrUnknownIndicator, s.Kind)
	}
	if s.Period < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPeriod, s.Period)
	}
	return nil
}

// String renders the spec as e.g. "SMA(20)".
func (s Spec) String() string {
	return string(s.Kind) + "(" + strconv.Itoa(s.Period) + ")"
}

// New creates a fresh indicator for spec.
func New(spec Spec) (Indicator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Kind {
	case KindEMA:
		return NewEMA(spec.Period), nil
	case KindRSI:
		return NewRSI(spec.Period), nil
	case KindSMMA:
		return NewSMMA(spec.Period), nil
	default:
		return NewSMA(spec.Period), nil
	}
}
