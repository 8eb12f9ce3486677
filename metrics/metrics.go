package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for both roles. All of them are updated at run boundaries only:
// the measurement loop itself must stay free of bookkeeping.
var (
	ActiveRuns = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sigping_active_runs",
			Help: "A gauge of benchmark runs currently in progress.",
		},
		[]string{"role"})
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigping_runs_total",
			Help: "Number of benchmark runs finished by this process.",
		},
		[]string{"role", "result"})
	RoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigping_rounds_total",
			Help: "Number of round trips completed by this process.",
		},
		[]string{"role"})
	SendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sigping_send_errors_total",
			Help: "Number of notification sends the kernel rejected.",
		},
		[]string{"role"})
	RTTSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sigping_rtt_seconds",
			Help: "Round-trip latency summary of the last completed run.",
		},
		[]string{"stat"})
)
