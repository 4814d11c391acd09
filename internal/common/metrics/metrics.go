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

	TaigaItemsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taiga_items_created_total",
			Help: "Total number of Taiga items created",
		},
		[]string{"kind"},
	)

	TaigaItemCreateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taiga_item_create_failures_total",
			Help: "Total number of failed Taiga item creations",
		},
		[]string{"kind"},
	)

	TaigaItemCreateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taiga_item_create_duration_seconds",
			Help:    "Duration of a Taiga item creation round trip in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of host API requests",
		},
		[]string{"route", "method", "status"},
	)
)
