// Package reaper runs the periodic background reclamation pass: expired temp
// files are deleted and stale terminal task records are swept. One pass is a
// single RunOnce; Run repeats it on a ticker until the context ends.
package reaper

import (
	"context"
	"time"

	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/internal/metrics"
)

// FileReclaimer removes expired files; see pkg/storage.
type FileReclaimer interface {
	ReclaimExpired(maxAge time.Duration) []string
}

// TaskSweeper removes stale terminal task records; see pkg/registry.
type TaskSweeper interface {
	ReleaseFile(path string) bool
	Sweep(maxAge time.Duration) int
}

// Reaper periodically reclaims expired files and sweeps stale task records.
type Reaper struct {
	files      FileReclaimer
	tasks      TaskSweeper
	interval   time.Duration
	maxFileAge time.Duration
	maxTaskAge time.Duration
}

// Default cadence and retention applied when a value is unset.
const (
	DefaultInterval   = 15 * time.Minute
	DefaultMaxFileAge = time.Hour
	DefaultMaxTaskAge = time.Hour
)

// New creates a reaper. Zero durations get defaults.
func New(files FileReclaimer, tasks TaskSweeper, interval, maxFileAge, maxTaskAge time.Duration) *Reaper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxFileAge <= 0 {
		maxFileAge = DefaultMaxFileAge
	}
	if maxTaskAge <= 0 {
		maxTaskAge = DefaultMaxTaskAge
	}
	return &Reaper{
		files:      files,
		tasks:      tasks,
		interval:   interval,
		maxFileAge: maxFileAge,
		maxTaskAge: maxTaskAge,
	}
}

// Run executes reclamation passes on the configured interval until ctx is
// done. The first pass runs after one full interval, not immediately.
func (r *Reaper) Run(ctx context.Context) {
	logger.Info("reaper started", logger.Fields{
		"interval":     r.interval,
		"max_file_age": r.maxFileAge,
		"max_task_age": r.maxTaskAge,
	})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reaper stopped", nil)
			return
		case <-ticker.C:
			r.RunOnce()
		}
	}
}

// RunOnce performs a single reclamation pass and returns the number of files
// deleted and task records removed. Files first, records second: a record
// swept while its file still exists would orphan the file until the next file
// pass. Every reclaimed file releases its completed task record immediately,
// so a poller never observes a completed task whose file is already gone.
func (r *Reaper) RunOnce() (files, tasks int) {
	reclaimed := r.files.ReclaimExpired(r.maxFileAge)
	files = len(reclaimed)
	if files > 0 {
		metrics.FilesReclaimed.Add(float64(files))
	}

	for _, path := range reclaimed {
		if r.tasks.ReleaseFile(path) {
			tasks++
		}
	}
	tasks += r.tasks.Sweep(r.maxTaskAge)
	if tasks > 0 {
		metrics.TasksSwept.Add(float64(tasks))
	}

	if files > 0 || tasks > 0 {
		logger.Info("reclamation pass finished", logger.Fields{
			"files_deleted": files,
			"tasks_swept":   tasks,
		})
	}
	return files, tasks
}
