// Package feed defines the tick wire format shared by the feed adapters.
//
// Ticks arrive as JSON objects:
//
//	{"t":1704067200000,"price":42150.5,"volume":0.25}
package feed

import (
	"encoding/json"
	"errors"
	"fmt"

	"chartengine/internal/model"
)

// ErrInvalidTick is returned for payloads that do not decode to a usable tick.
var ErrInvalidTick = errors.New("invalid tick")

// Sink receives decoded ticks. Ingest must not block; it reports false when
// the tick could not be queued.
type Sink interface {
	Ingest(t model.Tick) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(t model.Tick) bool

// Ingest calls f(t).
func (f SinkFunc) Ingest(t model.Tick) bool { return f(t) }

// Hooks observe feed activity (all optional).
type Hooks struct {
	OnConnect    func()
	OnDisconnect func(err error)
	OnTick       func()
	OnInvalid    func(err error)
	// OnOverflow runs when the sink refuses a tick.
	OnOverflow func()
}

// wire mirrors model.Tick with pointer fields so missing keys are detected.
type wire struct {
	T      *int64   `json:"t"`
	Price  *float64 `json:"price"`
	Volume *float64 `json:"volume"`
}

// Decode parses one tick message. Volume defaults to zero when absent.
func Decode(raw []byte) (model.Tick, error) {
	var w wire
	if err := json.Unmarshal(raw, &w); err != nil {
		return model.Tick{}, fmt.Errorf("%w: %v", ErrInvalidTick, err)
	}
	if w.T == nil || w.Price == nil {
		return model.Tick{}, fmt.Errorf("%w: missing t or price", ErrInvalidTick)
	}
	t := model.Tick{T: *w.T, Price: *w.Price}
	if w.Volume != nil {
		t.Volume = *w.Volume
	}
	if !t.Valid() {
		return model.Tick{}, fmt.Errorf("%w: non-finite price or volume at t=%d", ErrInvalidTick, t.T)
	}
	return t, nil
}

// Deliver decodes raw and hands the tick to sink, reporting through hooks.
// It returns the decode error, if any.
func Deliver(raw []byte, sink Sink, h Hooks) error {
	t, err := Decode(raw)
	if err != nil {
		if h.OnInvalid != nil {
			h.OnInvalid(err)
		}
		return err
	}
	if !sink.Ingest(t) {
		if h.OnOverflow != nil {
			h.OnOverflow()
		}
		return nil
	}
	if h.OnTick != nil {
		h.OnTick()
	}
	return nil
}
