package model

import (
	"errors"
	"testing"
)

func TestTimeframe_Millis(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"1s", 1000},
		{"1m", 60000},
		{"5m", 300000},
		{"15m", 900000},
		{"4h", 4 * 3600000},
		{"1d", 86400000},
		{"106751991167d", 106751991167 * 86400000},
	}
	for _, tc := range cases {
		got, err := Timeframe(tc.in).Millis()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseTimeframe_Invalid(t *testing.T) {
	for _, in := range []string{"", "m", "1", "1w", "1M", "-1m", "0m", "1.5m", " 1m", "200000000000d", "9223372036854775807s"} {
		if _, err := ParseTimeframe(in); !errors.Is(err, ErrInvalidTimeframe) {
			t.Errorf("%q: expected ErrInvalidTimeframe, got %v", in, err)
		}
	}
}

func TestBucketStart(t *testing.T) {
	cases := []struct{ t, ms, want int64 }{
		{0, 60000, 0},
		{59999, 60000, 0},
		{60000, 60000, 60000},
		{125000, 60000, 120000},
		{-1, 60000, -60000},
		{-60000, 60000, -60000},
	}
	for _, tc := range cases {
		if got := BucketStart(tc.t, tc.ms); got != tc.want {
			t.Errorf("BucketStart(%d, %d) = %d, want %d", tc.t, tc.ms, got, tc.want)
		}
	}
}

func TestCandle_Validate(t *testing.T) {
	good := Candle{Timestamp: 1000, Open: 100, High: 105, Low: 99, Close: 103, Volume: 10}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid candle, got %v", err)
	}

	bad := []Candle{
		{Timestamp: 1, Open: 100, High: 99, Low: 98, Close: 100},
		{Timestamp: 1, Open: 100, High: 101, Low: 100.5, Close: 100},
		{Timestamp: 1, Open: 100, High: 101, Low: 99, Close: 100, Volume: -1},
	}
	for i, c := range bad {
		if err := c.Validate(); !errors.Is(err, ErrInvalidCandle) {
			t.Errorf("case %d: expected ErrInvalidCandle, got %v", i, err)
		}
	}
}

func TestValidateSeries_OutOfOrder(t *testing.T) {
	series := []Candle{
		{Timestamp: 2000, Open: 1, High: 1, Low: 1, Close: 1},
		{Timestamp: 2000, Open: 1, High: 1, Low: 1, Close: 1},
	}
	if err := ValidateSeries(series); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestCandle_IsUp(t *testing.T) {
	tests := []struct {
		open, close float64
		want        bool
	}{
		{100, 105, true},
		{100, 100, true},
		{100, 95, false},
	}
	for _, tt := range tests {
		c := Candle{Open: tt.open, Close: tt.close}
		if got := c.IsUp(); got != tt.want {
			t.Errorf("open=%v close=%v: IsUp = %v, want %v", tt.open, tt.close, got, tt.want)
		}
	}
}

func TestTick_Valid(t *testing.T) {
	if !(Tick{T: 1, Price: 10, Volume: 0}).Valid() {
		t.Error("expected tick to be valid")
	}
	if (Tick{T: 1, Price: 10, Volume: -1}).Valid() {
		t.Error("negative volume should be invalid")
	}
}
