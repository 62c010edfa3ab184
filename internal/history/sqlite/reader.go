// Package sqlite reads historical candles from a SQLite file to seed a
// chart. The database is opened read-only.
//
// Expected schema:
//
//	CREATE TABLE candles (
//		symbol TEXT NOT NULL, tf TEXT NOT NULL, ts INTEGER NOT NULL,
//		open REAL, high REAL, low REAL, close REAL, volume REAL,
//		PRIMARY KEY (symbol, tf, ts)
//	);
//
// ts is the bucket start in Unix milliseconds.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	_ "github.com/mattn/go-sqlite3"

	"chartengine/internal/marketdata/agg"
	"chartengine/internal/model"
)

// Reader provides read-only access to stored candles.
type Reader struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewReader opens path for reading.
func NewReader(path string, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping %s: %w", path, err)
	}

	logger.Info("history opened", "path", path)
	return &Reader{db: db, logger: logger}, nil
}

// ReadLatest returns up to limit of the newest candles for symbol and tf,
// oldest first. limit <= 0 reads everything.
func (r *Reader) ReadLatest(ctx context.Context, symbol string, tf model.Timeframe, limit int) ([]model.Candle, error) {
	q := `SELECT ts, open, high, low, close, volume FROM candles
		WHERE symbol = ? AND tf = ? ORDER BY ts DESC`
	args := []any{symbol, string(tf)}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	candles, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	slices.Reverse(candles)
	return candles, nil
}

// ReadRange returns the candles with from <= ts < to, oldest first.
func (r *Reader) ReadRange(ctx context.Context, symbol string, tf model.Timeframe, from, to int64) ([]model.Candle, error) {
	return r.query(ctx, `SELECT ts, open, high, low, close, volume FROM candles
		WHERE symbol = ? AND tf = ? AND ts >= ? AND ts < ? ORDER BY ts ASC`,
		symbol, string(tf), from, to)
}

// Load returns the newest candles for tf. When none are stored at that
// timeframe it resamples base candles instead.
func (r *Reader) Load(ctx context.Context, symbol string, tf, base model.Timeframe, limit int) ([]model.Candle, error) {
	candles, err := r.ReadLatest(ctx, symbol, tf, limit)
	if err != nil || len(candles) > 0 || base == "" || base == tf {
		return candles, err
	}

	tfMs, err := tf.Millis()
	if err != nil {
		return nil, err
	}
	baseMs, err := base.Millis()
	if err != nil {
		return nil, err
	}
	if baseMs >= tfMs {
		return nil, nil
	}
	// Over-read so the oldest resampled bucket is complete more often.
	baseLimit := 0
	if limit > 0 {
		baseLimit = int(int64(limit+1) * (tfMs / baseMs))
	}
	raw, err := r.ReadLatest(ctx, symbol, base, baseLimit)
	if err != nil {
		return nil, err
	}
	out, err := agg.AggregateCandles(raw, tf)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	r.logger.Debug("history resampled", "symbol", symbol, "from", string(base), "to", string(tf),
		"base_rows", len(raw), "candles", len(out))
	return out, nil
}

func (r *Reader) query(ctx context.Context, q string, args ...any) ([]model.Candle, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles: %w", err)
	}
	defer rows.Close()

	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("sqlite scan candles: %w", err)
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
