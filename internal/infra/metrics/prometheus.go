package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frigate_archiver_runs_total",
		Help: "Total number of archive runs, by outcome",
	}, []string{"outcome"})

	ExportsRequestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frigate_archiver_exports_requested_total",
		Help: "Total number of accepted export trigger requests",
	})

	CamerasTrackedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frigate_archiver_cameras_tracked_total",
		Help: "Cameras whose export tracking finished, by result",
	}, []string{"result"})

	FilesMovedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frigate_archiver_files_moved_total",
		Help: "Export files moved into long-term storage",
	})

	FilesSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frigate_archiver_files_swept_total",
		Help: "Expired files removed by the retention sweep",
	})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "frigate_archiver_stage_duration_seconds",
		Help:    "Duration of each pipeline stage",
		Buckets: []float64{1, 5, 10, 30, 60, 300, 900, 1800, 3600, 7200},
	}, []string{"stage"})
)
