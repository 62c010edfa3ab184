// cmd/chartd runs a headless chart engine: it seeds candles from SQLite,
// streams ticks from a WebSocket or Redis feed, and periodically writes
// the rendered chart to a PNG file.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"chartengine/config"
	"chartengine/internal/engine"
	"chartengine/internal/feed"
	"chartengine/internal/feed/redisfeed"
	"chartengine/internal/feed/wsfeed"
	"chartengine/internal/frame"
	historysqlite "chartengine/internal/history/sqlite"
	"chartengine/internal/logger"
	"chartengine/internal/marketdata/agg"
	"chartengine/internal/metrics"
	"chartengine/internal/model"
	"chartengine/internal/render/raster"
	"chartengine/internal/ringbuf"
	"chartengine/internal/viewport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logger.Init("chartd", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Metrics & health ----
	prom := metrics.NewMetrics(prometheus.DefaultRegisterer)
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, prometheus.DefaultGatherer, health, log)
	metricsSrv.Start()

	// ---- Engine ----
	surface := raster.New(cfg.Width, cfg.Height)
	queue := frame.NewQueue()
	e, err := engine.New(surface, queue, engine.Options{
		Symbol:            cfg.Symbol,
		Timeframe:         model.Timeframe(cfg.Timeframe),
		AnimationDuration: cfg.Animation,
		Logger:            log,
		Hooks: engine.Hooks{
			OnFollow:  func(viewport.Viewport) { prom.FollowUpdates.Inc() },
			OnFrame:   func(_ time.Time, animating bool) { prom.ObserveFrame(animating) },
			OnPublish: prom.Publishes.Inc,
			OnCandle: func(_ model.Candle, appended bool) {
				kind := "updated"
				if appended {
					kind = "appended"
				}
				prom.CandlesAdded.WithLabelValues(kind).Inc()
			},
		},
	})
	if err != nil {
		log.Error("engine init failed", "error", err)
		os.Exit(1)
	}
	if err := e.SetTheme(cfg.Theme); err != nil {
		log.Error("theme", "error", err)
		os.Exit(1)
	}
	health.SetEngine(e.ID(), cfg.Symbol, cfg.Timeframe)
	ctx = logger.WithEngineID(ctx, e.ID())

	// ---- History (read-only seed) ----
	if cfg.HistoryPath != "" {
		n, err := seedHistory(ctx, cfg, e, log)
		if err != nil {
			log.Warn("history seed failed, starting empty", append(logger.Attrs(ctx), "error", err)...)
		}
		health.SetHistoryLoaded(n)
	}

	// ---- Loop ----
	inbox := ringbuf.New(cfg.InboxSize)
	loop, err := engine.NewLoop(e, queue, inbox, engine.LoopConfig{
		FPS: cfg.FPS,
		OnTicks: func(n int) {
			prom.TicksTotal.Add(float64(n))
			prom.InboxLen.Set(float64(inbox.Len()))
		},
		OnCandleClosed: func(model.Candle) { prom.CandlesClosed.Inc() },
		OnDroppedTick: func(r agg.DropReason) {
			prom.DroppedTicks.WithLabelValues(string(r)).Inc()
		},
		OnFlush: func(d time.Duration) { prom.FrameFlushDur.Observe(d.Seconds()) },
	})
	if err != nil {
		log.Error("loop init failed", "error", err)
		os.Exit(1)
	}

	// ---- Feed ----
	hooks := feed.Hooks{
		OnConnect: func() { health.SetFeedConnected(true) },
		OnDisconnect: func(error) {
			health.SetFeedConnected(false)
			prom.FeedReconnect.Inc()
		},
		OnTick:     func() { health.SetLastTickTime(time.Now()) },
		OnInvalid:  func(error) { prom.InvalidMsgs.Inc() },
		OnOverflow: func() { prom.DroppedTicks.WithLabelValues("overflow").Inc() },
	}
	sink := feed.SinkFunc(loop.Ingest)
	if err := startFeed(ctx, cfg, sink, hooks, health, log); err != nil {
		log.Error("feed init failed", "error", err)
		os.Exit(1)
	}
	health.StartLivenessChecker(ctx, 10*time.Second)

	// ---- Snapshots ----
	if cfg.SnapshotPath != "" {
		go runSnapshots(ctx, loop, surface, cfg.SnapshotPath, cfg.SnapshotInterval, log)
	}

	log.Info("chartd running", append(logger.Attrs(ctx),
		"symbol", cfg.Symbol, "timeframe", cfg.Timeframe, "feed", cfg.FeedKind)...)
	if err := loop.Run(ctx); err != nil {
		log.Error("loop exited", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Stop(shutdownCtx); err != nil {
		log.Warn("metrics shutdown", "error", err)
	}
	log.Info("chartd stopped")
}

func seedHistory(ctx context.Context, cfg *config.Config, e *engine.Engine, log *slog.Logger) (int, error) {
	r, err := historysqlite.NewReader(cfg.HistoryPath, log)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	candles, err := r.Load(ctx, cfg.Symbol, model.Timeframe(cfg.Timeframe),
		model.Timeframe(cfg.HistoryBase), cfg.HistoryLimit)
	if err != nil {
		return 0, err
	}
	if err := e.LoadCandles(candles); err != nil {
		return 0, err
	}
	log.Info("history loaded", "candles", len(candles))
	return len(candles), nil
}

func startFeed(ctx context.Context, cfg *config.Config, sink feed.Sink, hooks feed.Hooks,
	health *metrics.HealthStatus, log *slog.Logger) error {
	switch cfg.FeedKind {
	case config.FeedWS:
		c, err := wsfeed.New(wsfeed.Config{URL: cfg.FeedURL, Logger: log, Hooks: hooks})
		if err != nil {
			return err
		}
		go func() {
			if err := c.Run(ctx, sink); err != nil {
				log.Error("ws feed stopped", "error", err)
			}
		}()
	case config.FeedRedis:
		c, err := redisfeed.New(ctx, redisfeed.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			Channel:  cfg.RedisChannel,
			Logger:   log,
			Hooks:    hooks,
		})
		if err != nil {
			return err
		}
		health.AddProbe("redis", c.Ping)
		go func() {
			defer c.Close()
			if err := c.Run(ctx, sink); err != nil {
				health.SetFeedConnected(false)
				log.Error("redis feed stopped", "error", err)
			}
		}()
	default:
		health.SetFeedConnected(true)
	}
	return nil
}

// runSnapshots asks the loop to write the surface on its own goroutine so
// the image is never read mid-paint.
func runSnapshots(ctx context.Context, loop *engine.Loop, surface *raster.Surface, path string,
	every time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := loop.Do(ctx, func(*engine.Engine) error { return surface.SavePNG(path) })
			if err != nil && ctx.Err() == nil {
				log.Warn("snapshot failed", "path", path, "error", err)
			}
		}
	}
}
