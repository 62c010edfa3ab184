// Package wsfeed streams ticks from a plain-JSON WebSocket server into a
// feed.Sink, reconnecting with exponential backoff.
package wsfeed

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"chartengine/internal/feed"
)

// Config holds configuration for the WebSocket feed.
type Config struct {
	// URL of the tick server, e.g. "ws://localhost:9001/ws".
	URL string

	// ReconnectDelay is the initial delay before reconnecting. Defaults to 2s.
	ReconnectDelay time.Duration

	// MaxReconnectDelay caps the exponential backoff. Defaults to 30s.
	MaxReconnectDelay time.Duration

	Logger *slog.Logger
	Hooks  feed.Hooks
}

func (c *Config) defaults() {
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 2 * time.Second
	}
	if c.MaxReconnectDelay == 0 {
		c.MaxReconnectDelay = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client is a reconnecting WebSocket tick reader.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

// New validates the URL and returns a client.
func New(cfg Config) (*Client, error) {
	cfg.defaults()
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("wsfeed: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("wsfeed: unsupported scheme %q", u.Scheme)
	}
	return &Client{cfg: cfg, logger: cfg.Logger.With("feed", "ws")}, nil
}

// Run streams ticks into sink until ctx is cancelled, reconnecting on
// disconnect. It returns nil on cancellation.
func (c *Client) Run(ctx context.Context, sink feed.Sink) error {
	delay := c.cfg.ReconnectDelay
	for {
		if ctx.Err() != nil {
			return nil
		}

		connected, err := c.runOnce(ctx, sink)
		if err == nil {
			return nil
		}
		if connected {
			delay = c.cfg.ReconnectDelay
		}
		if c.cfg.Hooks.OnDisconnect != nil {
			c.cfg.Hooks.OnDisconnect(err)
		}
		c.logger.Warn("disconnected, reconnecting", "error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}

		delay *= 2
		if delay > c.cfg.MaxReconnectDelay {
			delay = c.cfg.MaxReconnectDelay
		}
	}
}

// runOnce dials once and reads until disconnect or cancellation. A nil
// error means ctx was cancelled.
func (c *Client) runOnce(ctx context.Context, sink feed.Sink) (bool, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		if ctx.Err() != nil {
			return false, nil
		}
		return false, err
	}
	defer conn.Close()

	c.logger.Info("connected", "url", c.cfg.URL)
	if c.cfg.Hooks.OnConnect != nil {
		c.cfg.Hooks.OnConnect()
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "shutdown"),
				time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return true, nil
			}
			return true, err
		}
		if err := feed.Deliver(raw, sink, c.cfg.Hooks); err != nil {
			c.logger.Debug("skipping message", "error", err)
		}
	}
}
