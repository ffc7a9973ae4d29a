// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	NLUResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_results_total",
			Help: "NLU results by producing provider and intent",
		},
		[]string{"provider", "intent"},
	)

	NLUStrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_strategy_failures_total",
			Help: "NLU strategies that declined, by reason",
		},
		[]string{"strategy", "reason"},
	)

	NLUCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nlu_cache_lookups_total",
			Help: "NLU cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	AdvisoriesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisories_generated_total",
			Help: "Advisory drafts produced by the rule engine",
		},
		[]string{"source", "severity"},
	)

	RuleDefects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rule_defects_total",
			Help: "Rules that evaluated true without producing a draft",
		},
		[]string{"rule"},
	)

	RulesRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rules_registered",
			Help: "Rules held by the sealed rule engine",
		},
	)
)

// JobTimer tracks one job from activation to completion or failure.
type JobTimer struct {
	taskType string
	start    time.Time
}

// StartJob marks a job active and starts its timer.
func StartJob(taskType string) *JobTimer {
	WorkerJobsActive.WithLabelValues(taskType).Inc()
	return &JobTimer{taskType: taskType, start: time.Now()}
}

// Completed records a completed job.
func (t *JobTimer) Completed() {
	t.finish()
	WorkerJobsCompleted.WithLabelValues(t.taskType).Inc()
}

// Failed records a failed job with its error code.
func (t *JobTimer) Failed(errorCode string) {
	t.finish()
	WorkerJobsFailed.WithLabelValues(t.taskType, errorCode).Inc()
}

func (t *JobTimer) finish() {
	WorkerJobsActive.WithLabelValues(t.taskType).Dec()
	WorkerJobDuration.WithLabelValues(t.taskType).Observe(time.Since(t.start).Seconds())
}
