// Package metrics defines the Prometheus collectors shared by the SSH server,
// the game sessions and the HTTP status endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/tui-idle/internal/core"
)

const namespace = "idle"

// Label names
const (
	LabelGame   = "game"
	LabelResult = "result"
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
)

// Autosave results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Session metrics
var (
	SSHSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ssh_sessions_active",
			Help:      "Number of connected SSH sessions",
		},
	)

	SSHSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ssh_sessions_total",
			Help:      "Total SSH sessions accepted",
		},
	)
)

// Game metrics
var (
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Purchases made, by game",
		},
		[]string{LabelGame},
	)

	LevelsBoughtTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_bought_total",
			Help:      "Track levels bought, by game",
		},
		[]string{LabelGame},
	)

	MilestonesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "milestones_total",
			Help:      "Breakthrough thresholds crossed, by game",
		},
		[]string{LabelGame},
	)

	AutosavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autosaves_total",
			Help:      "Save attempts, by game and result",
		},
		[]string{LabelGame, LabelResult},
	)

	OfflineApplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offline_applications_total",
			Help:      "Resumed runs that were credited offline progress, by game",
		},
		[]string{LabelGame},
	)

	OfflineSecondsCredited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offline_seconds_credited_total",
			Help:      "Seconds of offline production credited after the cap, by game",
		},
		[]string{LabelGame},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served",
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)
)

// ObserveEvents records the purchases and milestones of one tick.
func ObserveEvents(gameID string, events []core.Event) {
	for _, e := range events {
		switch e.Kind {
		case core.EventPurchase:
			PurchasesTotal.WithLabelValues(gameID).Inc()
			LevelsBoughtTotal.WithLabelValues(gameID).Add(float64(e.Levels))
		case core.EventMilestone:
			MilestonesTotal.WithLabelValues(gameID).Inc()
		}
	}
}

// ObserveOffline records an offline progress report.
func ObserveOffline(gameID string, rep core.OfflineReport) {
	if rep.Gain.Sign() <= 0 {
		return
	}
	OfflineApplicationsTotal.WithLabelValues(gameID).Inc()
	OfflineSecondsCredited.WithLabelValues(gameID).Add(rep.Credited.Seconds())
}

// ObserveSave records the outcome of a save attempt.
func ObserveSave(gameID string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	AutosavesTotal.WithLabelValues(gameID, result).Inc()
}
