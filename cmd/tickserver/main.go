// cmd/tickserver is a demo tick source for chartd. It random-walks one
// price and broadcasts ticks over WebSocket, and optionally publishes them
// to a Redis channel.
//
// Tick JSON shape:
//
//	{"t":1704067200000,"price":42150.5,"volume":0.25}
//
// Config (env vars):
//
//	TICK_SERVER_ADDR  listen address (default ":9001")
//	TICK_START_PRICE  initial price (default 42000)
//	TICK_INTERVAL     broadcast interval (default 100ms)
//	TICK_REDIS_ADDR   publish to Redis too when set
//	TICK_REDIS_CHANNEL Redis channel (default "ticks")
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"

	"chartengine/internal/logger"
	"chartengine/internal/model"
)

type config struct {
	Addr         string        `envconfig:"TICK_SERVER_ADDR" default:":9001"`
	StartPrice   float64       `envconfig:"TICK_START_PRICE" default:"42000"`
	Interval     time.Duration `envconfig:"TICK_INTERVAL" default:"100ms"`
	RedisAddr    string        `envconfig:"TICK_REDIS_ADDR"`
	RedisChannel string        `envconfig:"TICK_REDIS_CHANNEL" default:"ticks"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

type hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan []byte)}
}

func (h *hub) register(conn *websocket.Conn) chan []byte {
	ch := make(chan []byte, 256)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- msg:
		default: // slow client, drop tick
		}
	}
}

// ─── WebSocket handler ────────────────────────────────────────────────────────

var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

func wsHandler(h *hub, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("upgrade failed", "error", err)
			return
		}
		log.Info("client connected", "remote", r.RemoteAddr)

		ch := h.register(conn)
		defer func() {
			h.unregister(conn)
			conn.Close()
			log.Info("client disconnected", "remote", r.RemoteAddr)
		}()

		for msg := range ch {
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}

// ─── Tick generator ──────────────────────────────────────────────────────────

// walkPrice moves price by up to ±0.1%, never below 0.01.
func walkPrice(rng *rand.Rand, price float64) float64 {
	pct := (rng.Float64()*0.2 - 0.1) / 100.0
	return max(0.01, price*(1+pct))
}

func runGenerator(ctx context.Context, h *hub, rdb *goredis.Client, channel string,
	price float64, every time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			price = walkPrice(rng, price)
			b, err := json.Marshal(model.Tick{
				T:      now.UnixMilli(),
				Price:  price,
				Volume: float64(rng.Intn(100)+1) / 100,
			})
			if err != nil {
				continue
			}
			h.broadcast(b)
			if rdb != nil {
				if err := rdb.Publish(ctx, channel, b).Err(); err != nil && ctx.Err() == nil {
					log.Warn("redis publish failed", "error", err)
				}
			}
		}
	}
}

// ─── main ─────────────────────────────────────────────────────────────────────

func main() {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logger.Init("tickserver", logger.ParseLevel(cfg.LogLevel))
	if cfg.Interval <= 0 || cfg.StartPrice <= 0 {
		log.Error("TICK_INTERVAL and TICK_START_PRICE must be positive")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rdb *goredis.Client
	if cfg.RedisAddr != "" {
		rdb = goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		log.Info("publishing to redis", "addr", cfg.RedisAddr, "channel", cfg.RedisChannel)
	}

	h := newHub()
	go runGenerator(ctx, h, rdb, cfg.RedisChannel, cfg.StartPrice, cfg.Interval, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler(h, log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, `{"status":"ok","service":"tickserver"}`)
	})
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.Addr, "interval", cfg.Interval)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
