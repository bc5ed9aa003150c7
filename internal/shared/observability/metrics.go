package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reposcope_stage_seconds",
		Help:    "Time spent in one analysis pipeline stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reposcope_analysis_seconds",
		Help:    "End-to-end time for one analysis run.",
		Buckets: prometheus.DefBuckets,
	})

	SnapshotFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reposcope_snapshot_files_total",
		Help: "Number of files in the last analyzed snapshot.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reposcope_graph_edges_total",
		Help: "Number of dependency edges in the last structural model.",
	})

	UnresolvedReferences = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reposcope_unresolved_references_total",
		Help: "Unresolved reference tokens in the last analysis run.",
	})

	SkippedFiles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reposcope_skipped_files_total",
		Help: "Files skipped as unreadable in the last analysis run.",
	})

	RunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reposcope_runs_total",
		Help: "Total number of completed analysis runs.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reposcope_watcher_events_total",
		Help: "Total number of file system events received in watch mode.",
	})
)
