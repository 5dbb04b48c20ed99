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

	BattlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tournament_battles_total",
			Help: "Battles judged, by verdict source",
		},
		[]string{"verdict"},
	)

	JudgeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tournament_judge_duration_seconds",
			Help:    "Time spent judging a battle, including fallback",
			Buckets: []float64{0.05, 0.25, 1, 2.5, 5, 10, 20, 30, 45},
		},
	)

	BracketCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tournament_bracket_commits_total",
			Help: "Battle results committed to a bracket, by round",
		},
		[]string{"round"},
	)

	PlacesRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_requests_total",
			Help: "Upstream places requests, by endpoint and provider status",
		},
		[]string{"endpoint", "status"},
	)

	PlacesRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "places_request_duration_seconds",
			Help: "Latency of upstream places requests",
		},
		[]string{"endpoint"},
	)

	PlacesCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_cache_total",
			Help: "Places cache lookups, by endpoint and result",
		},
		[]string{"endpoint", "result"},
	)
)
