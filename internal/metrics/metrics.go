// Package metrics exposes dashboard and chat counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shutterboard"

// Recorder implements dashboard.Metrics and chat.Metrics against its own registry.
type Recorder struct {
	registry     *prometheus.Registry
	refreshes    *prometheus.CounterVec
	fetchSeconds prometheus.Histogram
	clients      prometheus.Gauge
	revenue      prometheus.Gauge
	chats        *prometheus.CounterVec
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Dashboard refreshes by outcome.",
		}, []string{"outcome"}),
		fetchSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sheet_fetch_seconds",
			Help:      "Time spent downloading the sheet export.",
			Buckets:   prometheus.DefBuckets,
		}),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clients",
			Help:      "Client rows in the current snapshot.",
		}),
		revenue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Summed price of all clients in the current snapshot.",
		}),
		chats: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_total",
			Help:      "Chat messages relayed by outcome.",
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.refreshes,
		r.fetchSeconds,
		r.clients,
		r.revenue,
		r.chats,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRefresh counts a refresh and records how long the fetch took.
func (r *Recorder) ObserveRefresh(ok bool, fetchDuration time.Duration) {
	r.refreshes.WithLabelValues(outcome(ok)).Inc()
	r.fetchSeconds.Observe(fetchDuration.Seconds())
}

// SetDashboard publishes the headline numbers of the latest snapshot.
func (r *Recorder) SetDashboard(clients, revenue int) {
	r.clients.Set(float64(clients))
	r.revenue.Set(float64(revenue))
}

// ObserveChat counts a relayed chat message.
func (r *Recorder) ObserveChat(ok bool) {
	r.chats.WithLabelValues(outcome(ok)).Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
