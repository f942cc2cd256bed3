// Package metrics exposes Prometheus collectors describing board activity.
//
// Every method is safe to call on a nil *Metrics, so components can be built
// without metrics in tests.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "kitchen_display"

	// FeedStatusOK labels a refresh that updated the board.
	FeedStatusOK = "ok"
	// FeedStatusError labels a refresh that failed.
	FeedStatusError = "error"
	// FeedStatusSkipped labels a refresh skipped because the previous one is still running.
	FeedStatusSkipped = "skipped"
)

// Metrics holds the collectors of one board process.
type Metrics struct {
	ticks          prometheus.Counter
	alarmsStarted  prometheus.Counter
	alarmsActive   prometheus.Gauge
	bursts         prometheus.Counter
	toneFailures   prometheus.Counter
	feedRefreshes  *prometheus.CounterVec
	ordersOnBoard  prometheus.Gauge
	alarmFrequency prometheus.Histogram
}

// MustNewMetrics creates the collectors and registers them with reg.
// Registration errors panic, like promauto.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clock",
			Name:      "ticks_total",
			Help:      "Number of virtual clock ticks.",
		}),
		alarmsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "started_total",
			Help:      "Number of alarm lifecycles started.",
		}),
		alarmsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "active",
			Help:      "Number of orders currently beeping.",
		}),
		bursts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "bursts_total",
			Help:      "Number of tone bursts emitted.",
		}),
		toneFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "tone_failures_total",
			Help:      "Number of tone bursts the output failed to start.",
		}),
		feedRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "refreshes_total",
			Help:      "Order feed refreshes by outcome.",
		}, []string{"status"}),
		ordersOnBoard: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "board",
			Name:      "orders",
			Help:      "Number of orders tracked by the board.",
		}),
		alarmFrequency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "alarm",
			Name:      "frequency_hertz",
			Help:      "Frequency assigned to started alarms.",
			Buckets:   prometheus.LinearBuckets(500, 28, 10),
		}),
	}

	reg.MustRegister(
		m.ticks,
		m.alarmsStarted,
		m.alarmsActive,
		m.bursts,
		m.toneFailures,
		m.feedRefreshes,
		m.ordersOnBoard,
		m.alarmFrequency,
	)

	return m
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveTick counts one clock tick.
func (m *Metrics) ObserveTick() {
	if m == nil {
		return
	}

	m.ticks.Inc()
}

// AlarmStarted records a new alarm lifecycle at frequency.
func (m *Metrics) AlarmStarted(frequency float64) {
	if m == nil {
		return
	}

	m.alarmsStarted.Inc()
	m.alarmsActive.Inc()
	m.alarmFrequency.Observe(frequency)
}

// AlarmFinished records the end of an alarm lifecycle.
func (m *Metrics) AlarmFinished() {
	if m == nil {
		return
	}

	m.alarmsActive.Dec()
}

// BurstEmitted counts one tone burst.
func (m *Metrics) BurstEmitted() {
	if m == nil {
		return
	}

	m.bursts.Inc()
}

// ToneFailed counts a burst whose tone could not start.
func (m *Metrics) ToneFailed() {
	if m == nil {
		return
	}

	m.toneFailures.Inc()
}

// FeedRefreshed counts a feed refresh with the given status label.
func (m *Metrics) FeedRefreshed(status string) {
	if m == nil {
		return
	}

	m.feedRefreshes.WithLabelValues(status).Inc()
}

// SetOrdersOnBoard publishes the number of tracked orders.
func (m *Metrics) SetOrdersOnBoard(n int) {
	if m == nil {
		return
	}

	m.ordersOnBoard.Set(float64(n))
}
