package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Probe checks one dependency.
type Probe func(ctx context.Context) error

// HealthStatus represents the process health.
type HealthStatus struct {
	mu sync.RWMutex

	EngineID      string    `json:"engine_id"`
	Symbol        string    `json:"symbol"`
	Timeframe     string    `json:"timeframe"`
	FeedConnected bool      `json:"feed_connected"`
	LastTickTime  time.Time `json:"last_tick_time"`
	HistoryLoaded int       `json:"history_loaded"`
	StartedAt     time.Time `json:"started_at"`

	probes      map[string]Probe
	probeErrors map[string]string
	lastCheckAt time.Time
	now         func() time.Time
}

// NewHealthStatus returns a default health status.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{
		StartedAt:   time.Now(),
		probes:      make(map[string]Probe),
		probeErrors: make(map[string]string),
		now:         time.Now,
	}
}

func (h *HealthStatus) SetEngine(id, symbol, timeframe string) {
	h.mu.Lock()
	h.EngineID, h.Symbol, h.Timeframe = id, symbol, timeframe
	h.mu.Unlock()
}

func (h *HealthStatus) SetFeedConnected(v bool) {
	h.mu.Lock()
	h.FeedConnected = v
	h.mu.Unlock()
}

func (h *HealthStatus) SetLastTickTime(t time.Time) {
	h.mu.Lock()
	h.LastTickTime = t
	h.mu.Unlock()
}

func (h *HealthStatus) SetHistoryLoaded(n int) {
	h.mu.Lock()
	h.HistoryLoaded = n
	h.mu.Unlock()
}

// AddProbe registers a dependency check run by the liveness checker.
func (h *HealthStatus) AddProbe(name string, p Probe) {
	h.mu.Lock()
	h.probes[name] = p
	h.mu.Unlock()
}

// RunProbes runs every probe once and records failures.
func (h *HealthStatus) RunProbes(ctx context.Context) {
	h.mu.RLock()
	probes := make(map[string]Probe, len(h.probes))
	for k, v := range h.probes {
		probes[k] = v
	}
	h.mu.RUnlock()

	results := make(map[string]string, len(probes))
	for name, p := range probes {
		if err := p(ctx); err != nil {
			results[name] = err.Error()
		}
	}

	h.mu.Lock()
	h.probeErrors = results
	h.lastCheckAt = h.now()
	h.mu.Unlock()
}

// StartLivenessChecker runs the probes every interval until ctx is done.
func (h *HealthStatus) StartLivenessChecker(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
				h.RunProbes(probeCtx)
				cancel()
			}
		}
	}()
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overall := "healthy"
	code := http.StatusOK
	if !h.FeedConnected || len(h.probeErrors) > 0 {
		overall = "degraded"
		code = http.StatusServiceUnavailable
	}

	tickAge := ""
	if !h.LastTickTime.IsZero() {
		tickAge = h.now().Sub(h.LastTickTime).Round(time.Millisecond).String()
	}
	lastCheck := ""
	if !h.lastCheckAt.IsZero() {
		lastCheck = h.lastCheckAt.Format(time.RFC3339)
	}

	status := struct {
		Status        string            `json:"status"`
		Uptime        string            `json:"uptime"`
		EngineID      string            `json:"engine_id"`
		Symbol        string            `json:"symbol"`
		Timeframe     string            `json:"timeframe"`
		FeedConnected bool              `json:"feed_connected"`
		TickAge       string            `json:"tick_age"`
		HistoryLoaded int               `json:"history_loaded"`
		ProbeErrors   map[string]string `json:"probe_errors,omitempty"`
		LastCheckAt   string            `json:"last_check_at,omitempty"`
	}{
		Status:        overall,
		Uptime:        h.now().Sub(h.StartedAt).Round(time.Second).String(),
		EngineID:      h.EngineID,
		Symbol:        h.Symbol,
		Timeframe:     h.Timeframe,
		FeedConnected: h.FeedConnected,
		TickAge:       tickAge,
		HistoryLoaded: h.HistoryLoaded,
		ProbeErrors:   h.probeErrors,
		LastCheckAt:   lastCheck,
	}

	w.Header().Set("Content-Type", "application/json")
	if code != http.StatusOK {
		w.WriteHeader(code)
	}
	json.NewEncoder(w).Encode(status)
}
