package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"chartengine/internal/model"
)

func seed(t *testing.T, rows map[string][]model.Candle) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE candles (
		symbol TEXT NOT NULL, tf TEXT NOT NULL, ts INTEGER NOT NULL,
		open REAL, high REAL, low REAL, close REAL, volume REAL,
		PRIMARY KEY (symbol, tf, ts))`); err != nil {
		t.Fatal(err)
	}
	for tf, cs := range rows {
		for _, c := range cs {
			if _, err := db.Exec(`INSERT INTO candles VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				"BTC", tf, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
				t.Fatal(err)
			}
		}
	}
	return path
}

func makeCandle(ts int64, price float64) model.Candle {
	return model.Candle{Timestamp: ts, Open: price, High: price + 1, Low: price - 1, Close: price, Volume: 1}
}

func TestReader_ReadLatest(t *testing.T) {
	path := seed(t, map[string][]model.Candle{
		"1m": {makeCandle(0, 1), makeCandle(60_000, 2), makeCandle(120_000, 3)},
	})
	r, err := NewReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := r.ReadLatest(context.Background(), "BTC", "1m", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Timestamp != 60_000 || got[1].Timestamp != 120_000 {
		t.Errorf("got %+v", got)
	}

	all, err := r.ReadLatest(context.Background(), "BTC", "1m", 0)
	if err != nil || len(all) != 3 {
		t.Errorf("all = %d, err = %v", len(all), err)
	}
	if err := model.ValidateSeries(all); err != nil {
		t.Errorf("series out of order: %v", err)
	}
}

func TestReader_ReadRange(t *testing.T) {
	path := seed(t, map[string][]model.Candle{
		"1m": {makeCandle(0, 1), makeCandle(60_000, 2), makeCandle(120_000, 3)},
	})
	r, err := NewReader(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := r.ReadRange(context.Background(), "BTC", "1m", 60_000, 120_000)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Close != 2 {
		t.Errorf("got %+v", got)
	}
}

func TestReader_LoadResamples(t *testing.T) {
	var base []model.Candle
	for i := int64(0); i < 10; i++ {
		base = append(base, makeCandle(i*60_000, float64(i+1)))
	}
	r, err := NewReader(seed(t, map[string][]model.Candle{"1m": base}), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := r.Load(context.Background(), "BTC", "5m", "1m", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("candles = %d, want 2", len(got))
	}
	if got[0].Open != 1 || got[0].Close != 5 || got[0].Volume != 5 {
		t.Errorf("first bucket = %+v", got[0])
	}
	if got[1].Timestamp != 300_000 || got[1].High != 11 {
		t.Errorf("second bucket = %+v", got[1])
	}
}

func TestNewReader_MissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "nope.db"), nil); err == nil {
		t.Fatal("expected error opening a missing database read-only")
	}
}
