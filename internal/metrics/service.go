package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	labels := []string{"calc_type"}
	s := &Service{
		JobsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_recalc_jobs_enqueued_total",
			Help: "The total number of recalculation jobs created.",
		}, labels),
		JobsDeduplicated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_recalc_jobs_deduplicated_total",
			Help: "The total number of enqueue requests merged into an existing job.",
		}, labels),
		JobsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_recalc_jobs_completed_total",
			Help: "The total number of recalculation jobs that completed.",
		}, labels),
		JobsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_recalc_jobs_failed_total",
			Help: "The total number of recalculation jobs that failed.",
		}, labels),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "padel_recalc_job_duration_seconds",
			Help:    "Wall time of a job from RUNNING to its terminal state.",
			Buckets: durationBuckets,
		}, labels),
		PendingJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "padel_recalc_jobs_pending",
			Help: "The number of PENDING recalculation jobs.",
		}),
		RecalcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "padel_recalc_pipeline_duration_seconds",
			Help:    "The duration of one pipeline rebuild.",
			Buckets: durationBuckets,
		}, labels),
		MatchesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "padel_matches_processed_total",
			Help: "The total number of matches fed through the aggregation pass.",
		}, labels),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "padel_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "padel_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.JobsEnqueued,
		s.JobsDeduplicated,
		s.JobsCompleted,
		s.JobsFailed,
		s.JobDuration,
		s.PendingJobs,
		s.RecalcDuration,
		s.MatchesProcessed,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncJobsEnqueued(calcType string) {
	s.JobsEnqueued.WithLabelValues(calcType).Inc()
}

func (s *Service) IncJobsDeduplicated(calcType string) {
	s.JobsDeduplicated.WithLabelValues(calcType).Inc()
}

func (s *Service) IncJobsCompleted(calcType string) {
	s.JobsCompleted.WithLabelValues(calcType).Inc()
}

func (s *Service) IncJobsFailed(calcType string) {
	s.JobsFailed.WithLabelValues(calcType).Inc()
}

func (s *Service) ObserveJobDuration(calcType string, duration float64) {
	s.JobDuration.WithLabelValues(calcType).Observe(duration)
}

func (s *Service) SetPendingJobs(n int) {
	s.PendingJobs.Set(float64(n))
}

func (s *Service) ObserveRecalcDuration(calcType string, duration float64) {
	s.RecalcDuration.WithLabelValues(calcType).Observe(duration)
}

func (s *Service) AddMatchesProcessed(calcType string, n int) {
	s.MatchesProcessed.WithLabelValues(calcType).Add(float64(n))
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
