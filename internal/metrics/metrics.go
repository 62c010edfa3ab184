package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of a chart engine process.
type Metrics struct {
	TicksTotal    prometheus.Counter
	DroppedTicks  *prometheus.CounterVec // labels: reason=late|invalid|overflow
	CandlesClosed prometheus.Counter
	CandlesAdded  *prometheus.CounterVec // labels: kind=appended|updated
	FollowUpdates prometheus.Counter
	Publishes     prometheus.Counter
	FeedReconnect prometheus.Counter
	InvalidMsgs   prometheus.Counter

	FramesTotal   prometheus.Counter
	FrameFlushDur prometheus.Histogram
	Animating     prometheus.Gauge

	InboxLen prometheus.Gauge
}

// NewMetrics creates the metrics and registers them on reg.
// Pass prometheus.DefaultRegisterer to expose them on /metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_ticks_total",
			Help: "Ticks aggregated into candles",
		}),
		DroppedTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartengine_dropped_ticks_total",
			Help: "Ticks dropped before aggregation",
		}, []string{"reason"}),
		CandlesClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_candles_closed_total",
			Help: "Candles finalized by the aggregator",
		}),
		CandlesAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chartengine_candles_total",
			Help: "Candles applied to the visible series",
		}, []string{"kind"}),
		FollowUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_follow_updates_total",
			Help: "Coalesced auto-scroll updates applied",
		}),
		Publishes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_state_publishes_total",
			Help: "Target states handed to the animator",
		}),
		FeedReconnect: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_feed_reconnects_total",
			Help: "Feed disconnects followed by a reconnect attempt",
		}),
		InvalidMsgs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_feed_invalid_messages_total",
			Help: "Feed messages that did not decode to a tick",
		}),
		FramesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chartengine_frames_total",
			Help: "Frames painted",
		}),
		FrameFlushDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "chartengine_frame_flush_duration_seconds",
			Help:    "Time spent running one frame's callbacks",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.016, 0.033, 0.1},
		}),
		Animating: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartengine_animating",
			Help: "1 while a transition is in flight",
		}),
		InboxLen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chartengine_inbox_len",
			Help: "Ticks waiting in the engine inbox",
		}),
	}

	reg.MustRegister(
		m.TicksTotal,
		m.DroppedTicks,
		m.CandlesClosed,
		m.CandlesAdded,
		m.FollowUpdates,
		m.Publishes,
		m.FeedReconnect,
		m.InvalidMsgs,
		m.FramesTotal,
		m.FrameFlushDur,
		m.Animating,
		m.InboxLen,
	)
	return m
}

// ObserveFrame records one painted frame.
func (m *Metrics) ObserveFrame(animating bool) {
	m.FramesTotal.Inc()
	if animating {
		m.Animating.Set(1)
	} else {
		m.Animating.Set(0)
	}
}
