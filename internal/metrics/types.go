package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// Job and recalculation metrics carry a calc_type label (global, league, season).
type Service struct {
	JobsEnqueued       *prometheus.CounterVec
	JobsDeduplicated   *prometheus.CounterVec
	JobsCompleted      *prometheus.CounterVec
	JobsFailed         *prometheus.CounterVec
	JobDuration        *prometheus.HistogramVec
	PendingJobs        prometheus.Gauge
	RecalcDuration     *prometheus.HistogramVec
	MatchesProcessed   *prometheus.CounterVec
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
