package indicator

import (
	"errors"
	"reflect"
	"testing"

	"chartengine/internal/model"
)

func makeCandles(closes ...float64) []model.Candle {
	out := make([]model.Candle, len(closes))
	for i, c := range closes {
		out[i] = model.Candle{
			Timestamp: int64(i+1) * 1000,
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
	}
	return out
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		spec Spec
		err  error
	}{
		{Spec{KindSMA, 20}, nil},
		{Spec{KindRSI, 1}, nil},
		{Spec{KindEMA, 0}, ErrInvalidPeriod},
		{Spec{KindSMA, -3}, ErrInvalidPeriod},
		{Spec{"MACD", 12}, ErrUnknownIndicator},
	}
	for _, tt := range tests {
		err := tt.spec.Validate()
		if tt.err == nil && err != nil {
			t.Errorf("%v: unexpected error %v", tt.spec, err)
		}
		if tt.err != nil && !errors.Is(err, tt.err) {
			t.Errorf("%v: expected %v, got %v", tt.spec, tt.err, err)
		}
	}
}

func TestRegistry_SMA20(t *testing.T) {
	r := NewRegistry()
	if err := r.Add("sma20", Spec{KindSMA, 20}); err != nil {
		t.Fatal(err)
	}

	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100
	}
	candles := makeCandles(closes...)

	s, err := r.Calculate("sma20", candles)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Values) != 6 {
		t.Fatalf("expected 6 values (25-20+1), got %d", len(s.Values))
	}
	if s.Timestamps[0] != candles[19].Timestamp {
		t.Errorf("first value should align with candle 19, got ts=%d", s.Timestamps[0])
	}
	for _, v := range s.Values {
		assertClose(t, "SMA20", v, 100, 0.001)
	}
}

func TestRegistry_AlignmentRSI(t *testing.T) {
	candles := makeCandles(1, 2, 3, 4, 5, 6)
	s, err := Compute("rsi", Spec{KindRSI, 3}, candles)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Values) != 3 || s.Timestamps[0] != candles[3].Timestamp {
		t.Errorf("RSI(3) should start at index 3, got %d values from ts=%v", len(s.Values), s.Timestamps)
	}
}

func TestRegistry_InsertionOrderAndRemove(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"a", "b", "c"} {
		if err := r.Add(id, Spec{KindEMA, 2}); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.Remove("b"); err != nil {
		t.Fatal(err)
	}
	if got := r.IDs(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("IDs after remove: %v", got)
	}
	if _, err := r.Calculate("c", makeCandles(1, 2, 3)); err != nil {
		t.Errorf("index must be rebuilt after remove: %v", err)
	}

	all, err := r.CalculateAll(makeCandles(1, 2, 3))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "c" {
		t.Errorf("CalculateAll order: %+v", all)
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	if err := r.Add("x", Spec{KindSMA, 0}); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
	if r.Len() != 0 {
		t.Error("invalid spec must not be registered")
	}
	_ = r.Add("x", Spec{KindSMA, 5})
	if err := r.Add("x", Spec{KindEMA, 5}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := r.Calculate("missing", nil); !errors.Is(err, ErrUnknownIndicator) {
		t.Errorf("expected ErrUnknownIndicator, got %v", err)
	}
	if err := r.Remove("missing"); !errors.Is(err, ErrUnknownIndicator) {
		t.Errorf("expected ErrUnknownIndicator on remove, got %v", err)
	}
}

func TestSeries_Clone(t *testing.T) {
	s, _ := Compute("s", Spec{KindSMA, 1}, makeCandles(1, 2))
	c := s.Clone()
	c.Values[0] = 99
	if s.Values[0] == 99 {
		t.Error("Clone must not share the values slice")
	}
}
