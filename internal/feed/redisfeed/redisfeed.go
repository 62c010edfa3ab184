// Package redisfeed streams ticks published on a Redis Pub/Sub channel
// into a feed.Sink.
package redisfeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"chartengine/internal/feed"
)

// Config configures the Redis feed.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Channel is the Pub/Sub channel; a pattern such as "ticks:*" is
	// subscribed with PSUBSCRIBE.
	Channel string

	Logger *slog.Logger
	Hooks  feed.Hooks
}

// Client subscribes to a tick channel.
type Client struct {
	rdb     *goredis.Client
	channel string
	pattern bool
	logger  *slog.Logger
	hooks   feed.Hooks
}

// New creates a client and pings the server.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Channel == "" {
		return nil, fmt.Errorf("redisfeed: empty channel")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redisfeed: ping %s: %w", cfg.Addr, err)
	}

	return &Client{
		rdb:     rdb,
		channel: cfg.Channel,
		pattern: isPattern(cfg.Channel),
		logger:  cfg.Logger.With("feed", "redis", "channel", cfg.Channel),
		hooks:   cfg.Hooks,
	}, nil
}

func isPattern(ch string) bool {
	for _, r := range ch {
		switch r {
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// Run delivers messages to sink until ctx is cancelled. The go-redis
// PubSub reconnects on its own; Run returns nil on cancellation.
func (c *Client) Run(ctx context.Context, sink feed.Sink) error {
	var ps *goredis.PubSub
	if c.pattern {
		ps = c.rdb.PSubscribe(ctx, c.channel)
	} else {
		ps = c.rdb.Subscribe(ctx, c.channel)
	}
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("redisfeed: subscribe: %w", err)
	}
	c.logger.Info("subscribed")
	if c.hooks.OnConnect != nil {
		c.hooks.OnConnect()
	}

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if err := feed.Deliver([]byte(msg.Payload), sink, c.hooks); err != nil {
				c.logger.Debug("skipping message", "error", err)
			}
		}
	}
}

// Ping checks the connection; it serves as a health probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close releases the Redis connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
