// internal/metrics/metrics.go
//
// Prometheus instrumentation for gameplay.
// Each Metrics owns its registry so servers built in tests do not collide
// on the default registerer.

package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "queens"

// Click outcomes.
const (
	OutcomePlaced   = "placed"
	OutcomeRejected = "rejected"
	OutcomeRemoved  = "removed"
	OutcomeIgnored  = "ignored"
)

type Metrics struct {
	registry *prometheus.Registry

	gamesStarted *prometheus.CounterVec
	clicks       *prometheus.CounterVec
	wins         *prometheus.CounterVec
	dailySolves  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started, by mode and board size.",
		}, []string{"mode", "size"}),
		clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Board clicks, by outcome.",
		}, []string{"outcome"}),
		wins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wins_total",
			Help:      "Solved boards, by board size.",
		}, []string{"size"}),
		dailySolves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_solves_total",
			Help:      "Daily challenges solved.",
		}),
	}
	m.registry.MustRegister(
		m.gamesStarted, m.clicks, m.wins, m.dailySolves,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) GameStarted(mode string, size int) {
	m.gamesStarted.WithLabelValues(mode, strconv.Itoa(size)).Inc()
}

func (m *Metrics) Click(outcome string) { m.clicks.WithLabelValues(outcome).Inc() }

func (m *Metrics) Win(size int) { m.wins.WithLabelValues(strconv.Itoa(size)).Inc() }

func (m *Metrics) DailySolved() { m.dailySolves.Inc() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
