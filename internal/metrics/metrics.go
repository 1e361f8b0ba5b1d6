package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "collectsim_run_seconds",
		Help:    "Wall-clock time of a simulation run, including worker startup and join",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	TrialsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "collectsim_trials_total",
		Help: "Trials completed across all runs",
	})

	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "collectsim_runs_total",
		Help: "Calculate invocations by outcome",
	}, []string{"outcome"})
)

// Outcome labels for RunsTotal.
const (
	OutcomeOK               = "ok"
	OutcomeParseError       = "parse_error"
	OutcomeInvalidSelection = "invalid_selection"
	OutcomeUnreachable      = "unreachable_target"
	OutcomeOutOfRange       = "trials_out_of_range"
	OutcomeFailed           = "failed"
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
