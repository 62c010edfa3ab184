package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"chartengine/internal/model"
)

// Feed kinds.
const (
	FeedWS    = "ws"
	FeedRedis = "redis"
	FeedNone  = "none"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Chart
	Symbol    string        `envconfig:"CHART_SYMBOL" default:"BTCUSDT"`
	Timeframe string        `envconfig:"CHART_TIMEFRAME" default:"1m"`
	Width     int           `envconfig:"CHART_WIDTH" default:"1200"`
	Height    int           `envconfig:"CHART_HEIGHT" default:"600"`
	FPS       int           `envconfig:"CHART_FPS" default:"60"`
	Animation time.Duration `envconfig:"CHART_ANIMATION" default:"200ms"`
	Theme     string        `envconfig:"CHART_THEME" default:"dark"`

	// Feed
	FeedKind      string `envconfig:"FEED_KIND" default:"ws"`
	FeedURL       string `envconfig:"FEED_URL" default:"ws://localhost:9001/ws"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisChannel  string `envconfig:"REDIS_CHANNEL" default:"ticks"`
	InboxSize     int    `envconfig:"INBOX_SIZE" default:"4096"`

	// History (empty path disables seeding)
	HistoryPath string `envconfig:"HISTORY_PATH"`
	// HistoryBase is resampled when HistoryPath has no rows at Timeframe.
	HistoryBase  string `envconfig:"HISTORY_BASE_TIMEFRAME" default:"1m"`
	HistoryLimit int    `envconfig:"HISTORY_LIMIT" default:"500"`

	// Infrastructure
	MetricsAddr      string        `envconfig:"METRICS_ADDR" default:":9090"`
	SnapshotPath     string        `envconfig:"SNAPSHOT_PATH" default:"chart.png"`
	SnapshotInterval time.Duration `envconfig:"SNAPSHOT_INTERVAL" default:"1s"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if _, err := model.ParseTimeframe(c.Timeframe); err != nil {
		return fmt.Errorf("%w: CHART_TIMEFRAME: %v", ErrInvalidConfig, err)
	}
	if c.HistoryPath != "" && c.HistoryBase != "" {
		if _, err := model.ParseTimeframe(c.HistoryBase); err != nil {
			return fmt.Errorf("%w: HISTORY_BASE_TIMEFRAME: %v", ErrInvalidConfig, err)
		}
	}
	switch c.FeedKind {
	case FeedWS, FeedRedis, FeedNone:
	default:
		return fmt.Errorf("%w: FEED_KIND %q (want ws, redis or none)", ErrInvalidConfig, c.FeedKind)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: chart size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: CHART_FPS %d", ErrInvalidConfig, c.FPS)
	}
	if c.InboxSize <= 0 {
		return fmt.Errorf("%w: INBOX_SIZE %d", ErrInvalidConfig, c.InboxSize)
	}
	if c.SnapshotPath != "" && c.SnapshotInterval <= 0 {
		return fmt.Errorf("%w: SNAPSHOT_INTERVAL %s", ErrInvalidConfig, c.SnapshotInterval)
	}
	return nil
}
