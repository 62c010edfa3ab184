package agg

import (
	"errors"
	"testing"

	"chartengine/internal/model"
)

type event struct {
	kind   string
	candle model.Candle
}

func newRecorder(t *testing.T, tf model.Timeframe) (*Aggregator, *[]event) {
	t.Helper()
	a, err := New(tf)
	if err != nil {
		t.Fatalf("New(%q): %v", tf, err)
	}
	var events []event
	a.OnCandleClosed = func(c model.Candle) { events = append(events, event{"closed", c}) }
	a.OnCandleUpdated = func(c model.Candle) { events = append(events, event{"updated", c}) }
	return a, &events
}

func TestAggregator_BasicCandle(t *testing.T) {
	a, events := newRecorder(t, "1m")

	// Three ticks in the same minute.
	a.Ingest(model.Tick{T: 60_000, Price: 50000, Volume: 10})
	a.Ingest(model.Tick{T: 60_200, Price: 50500, Volume: 20})
	a.Ingest(model.Tick{T: 60_500, Price: 49800, Volume: 5})

	// A tick in the next minute closes the previous bucket.
	a.Ingest(model.Tick{T: 120_000, Price: 50100, Volume: 15})

	var closed []model.Candle
	for _, e := range *events {
		if e.kind == "closed" {
			closed = append(closed, e.candle)
		}
	}
	if len(closed) != 1 {
		t.Fatalf("expected 1 closed candle, got %d", len(closed))
	}

	c := closed[0]
	if c.Timestamp != 60_000 {
		t.Errorf("expected ts=60000, got %d", c.Timestamp)
	}
	if c.Open != 50000 {
		t.Errorf("expected open=50000, got %v", c.Open)
	}
	if c.High != 50500 {
		t.Errorf("expected high=50500, got %v", c.High)
	}
	if c.Low != 49800 {
		t.Errorf("expected low=49800, got %v", c.Low)
	}
	if c.Close != 49800 {
		t.Errorf("expected close=49800, got %v", c.Close)
	}
	if c.Volume != 35 {
		t.Errorf("expected volume=35, got %v", c.Volume)
	}

	cur, ok := a.Current()
	if !ok || cur.Timestamp != 120_000 || cur.Open != 50100 {
		t.Errorf("unexpected open candle: %+v ok=%v", cur, ok)
	}
}

func TestAggregator_OpenNeverChangesWithinBucket(t *testing.T) {
	a, events := newRecorder(t, "1m")
	prices := []float64{100, 105, 95, 101, 99}
	for i, p := range prices {
		a.Ingest(model.Tick{T: int64(i * 1000), Price: p, Volume: 1})
	}
	if len(*events) != len(prices) {
		t.Fatalf("expected %d updates, got %d", len(prices), len(*events))
	}
	for i, e := range *events {
		if e.kind != "updated" {
			t.Fatalf("event %d: expected updated, got %s", i, e.kind)
		}
		if e.candle.Open != 100 {
			t.Errorf("event %d: open changed to %v", i, e.candle.Open)
		}
		if e.candle.Volume != float64(i+1) {
			t.Errorf("event %d: volume %v, want %d", i, e.candle.Volume, i+1)
		}
	}
	last := (*events)[len(*events)-1].candle
	if last.High != 105 || last.Low != 95 || last.Close != 99 {
		t.Errorf("unexpected extrema: %+v", last)
	}
}

func TestAggregator_ClosedBeforeUpdated(t *testing.T) {
	a, events := newRecorder(t, "1s")
	a.Ingest(model.Tick{T: 100, Price: 1, Volume: 1})
	a.Ingest(model.Tick{T: 1100, Price: 2, Volume: 1})

	got := *events
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(got), got)
	}
	if got[1].kind != "closed" || got[1].candle.Timestamp != 0 {
		t.Errorf("expected closed for bucket 0, got %+v", got[1])
	}
	if got[2].kind != "updated" || got[2].candle.Timestamp != 1000 {
		t.Errorf("expected updated for bucket 1000, got %+v", got[2])
	}
}

func TestAggregator_UpdatedIsCopy(t *testing.T) {
	a, err := New("1m")
	if err != nil {
		t.Fatal(err)
	}
	var held model.Candle
	a.OnCandleUpdated = func(c model.Candle) {
		c.High = 1e9
		held = c
	}
	a.Ingest(model.Tick{T: 0, Price: 10, Volume: 1})
	cur, _ := a.Current()
	if cur.High != 10 {
		t.Errorf("subscriber mutation leaked into aggregator: high=%v", cur.High)
	}
	if held.High != 1e9 {
		t.Error("subscriber copy should be independent")
	}
}

func TestAggregator_LateTick(t *testing.T) {
	a, events := newRecorder(t, "1s")
	var drops []DropReason
	a.OnDroppedTick = func(r DropReason) { drops = append(drops, r) }

	a.Ingest(model.Tick{T: 5000, Price: 50000, Volume: 10})
	a.Ingest(model.Tick{T: 3999, Price: 49000, Volume: 5})

	if len(drops) != 1 || drops[0] != DropLate {
		t.Errorf("expected one late drop, got %v", drops)
	}
	if len(*events) != 1 {
		t.Errorf("late tick must not emit, got %d events", len(*events))
	}
}

func TestAggregator_InvalidTick(t *testing.T) {
	a, _ := newRecorder(t, "1s")
	var drops []DropReason
	a.OnDroppedTick = func(r DropReason) { drops = append(drops, r) }

	a.Ingest(model.Tick{T: 0, Price: 1, Volume: -1})
	if len(drops) != 1 || drops[0] != DropInvalid {
		t.Errorf("expected one invalid drop, got %v", drops)
	}
	if _, ok := a.Current(); ok {
		t.Error("invalid tick must not open a bucket")
	}
}

func TestAggregator_Flush(t *testing.T) {
	a, events := newRecorder(t, "1m")
	a.Flush()
	if len(*events) != 0 {
		t.Fatal("flush with no open bucket must not emit")
	}
	a.Ingest(model.Tick{T: 0, Price: 1, Volume: 1})
	a.Flush()
	got := *events
	if len(got) != 2 || got[1].kind != "closed" {
		t.Fatalf("expected trailing closed event, got %+v", got)
	}
	if _, ok := a.Current(); ok {
		t.Error("flush must leave no open bucket")
	}
}

func TestNew_InvalidTimeframe(t *testing.T) {
	for _, tf := range []model.Timeframe{"", "1x", "0m", "m1", "1.5h"} {
		if _, err := New(tf); !errors.Is(err, model.ErrInvalidTimeframe) {
			t.Errorf("New(%q): expected ErrInvalidTimeframe, got %v", tf, err)
		}
	}
}
