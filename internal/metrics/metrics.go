// Package metrics provides Prometheus metrics for the clipsaver service:
// download outcomes, in-flight work, and reclamation activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DownloadsStarted counts tasks that began retrieval.
var DownloadsStarted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clipsaver",
	Name:      "downloads_started_total",
	Help:      "Total download tasks that started retrieval.",
})

// DownloadsCompleted counts successfully finished downloads.
var DownloadsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clipsaver",
	Name:      "downloads_completed_total",
	Help:      "Total downloads that completed successfully.",
})

// DownloadsFailed counts failed downloads by failure kind.
var DownloadsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "clipsaver",
	Name:      "downloads_failed_total",
	Help:      "Total downloads that failed, by failure kind.",
}, []string{"kind"})

// DownloadsDeduplicated counts submissions resolved to an existing task.
var DownloadsDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clipsaver",
	Name:      "downloads_deduplicated_total",
	Help:      "Total submissions that joined an already-active task.",
})

// DownloadsActive tracks in-flight downloads.
var DownloadsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "clipsaver",
	Name:      "downloads_active",
	Help:      "Number of downloads currently in flight.",
})

// FilesReclaimed counts temp files removed by the reaper.
var FilesReclaimed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clipsaver",
	Name:      "files_reclaimed_total",
	Help:      "Total expired files removed from the temp root.",
})

// TasksSwept counts terminal task records removed by the reaper.
var TasksSwept = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "clipsaver",
	Name:      "tasks_swept_total",
	Help:      "Total terminal task records swept.",
})
