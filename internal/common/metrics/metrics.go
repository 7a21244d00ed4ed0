// internal/common/metrics/metrics.go
package metrics

import (
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

	PostsScored = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "buzz_post_score",
			Help:    "Distribution of buzz scores handed out",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
		[]string{"scope", "model_status"},
	)

	CalibrationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzz_calibration_runs_total",
			Help: "Calibration runs by resulting model status",
		},
		[]string{"scope", "status"},
	)

	CalibrationSampleSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "buzz_calibration_sample_size",
			Help: "Posts used by the latest calibration run",
		},
		[]string{"scope"},
	)

	CalibrationCorrelation = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "buzz_calibration_correlation",
			Help: "Score/outcome correlation of the latest calibration run",
		},
		[]string{"scope"},
	)

	ModelLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzz_model_lookups_total",
			Help: "Active weight set lookups by source",
		},
		[]string{"source"},
	)

	CorpusPostsRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buzz_corpus_posts_read_total",
			Help: "Posts read from the post store",
		},
		[]string{"driver"},
	)
)

// Model lookup sources.
const (
	SourceCache    = "cache"
	SourceDatabase = "database"
	SourceDefault  = "default"
)

// ObserveScore records one scored post.
func ObserveScore(scope, modelStatus string, score float64) {
	PostsScored.WithLabelValues(scope, modelStatus).Observe(score)
}

// ObserveCalibration records the outcome of one calibration run.
func ObserveCalibration(scope, status string, sampleSize int, correlation float64) {
	CalibrationRuns.WithLabelValues(scope, status).Inc()
	CalibrationSampleSize.WithLabelValues(scope).Set(float64(sampleSize))
	CalibrationCorrelation.WithLabelValues(scope).Set(correlation)
}
