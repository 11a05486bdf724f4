package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncJobsEnqueued(calcType string)
	IncJobsDeduplicated(calcType string)
	IncJobsCompleted(calcType string)
	IncJobsFailed(calcType string)
	ObserveJobDuration(calcType string, duration float64)
	SetPendingJobs(n int)
	ObserveRecalcDuration(calcType string, duration float64)
	AddMatchesProcessed(calcType string, n int)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
