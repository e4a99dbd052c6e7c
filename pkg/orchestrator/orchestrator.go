// Package orchestrator coordinates URL classification, the task registry, the
// storage manager, and the retriever into the submit/poll/confirm lifecycle.
// Submit returns a task id promptly; the download itself runs in its own
// goroutine and is observed through the registry.
package orchestrator

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/internal/metrics"
	"github.com/clipsaver/clipsaver/pkg/download"
	"github.com/clipsaver/clipsaver/pkg/errors"
	"github.com/clipsaver/clipsaver/pkg/model"
	"github.com/clipsaver/clipsaver/pkg/platform"
	"github.com/clipsaver/clipsaver/pkg/registry"
)

// Orchestrator ties the task registry, file store and retriever together.
type Orchestrator struct {
	Tasks     TaskStore
	Files     FileStore
	Retriever Retriever
	Hooks     Hooks

	opts Options
	wg   sync.WaitGroup
}

// New creates an orchestrator. Zero option fields get defaults.
func New(tasks TaskStore, files FileStore, retriever Retriever, opts Options, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Tasks:     tasks,
		Files:     files,
		Retriever: retriever,
		Hooks:     hooks,
		opts:      opts.withDefaults(),
	}
}

// Submit classifies the URL and resolves it to a task: either the already
// active task for the same video, or a freshly created one whose retrieval is
// started in the background. The returned task id can be polled immediately.
// URL rejections are returned directly; every later failure is recorded on
// the task instead.
func (o *Orchestrator) Submit(ctx context.Context, url, requesterID string) (string, error) {
	cls, err := platform.Classify(url)
	if err != nil {
		return "", err
	}
	key := cls.RequestKey()

	for {
		if id, ok := o.Tasks.FindActive(key); ok {
			metrics.DownloadsDeduplicated.Inc()
			o.emit(Event{Phase: "dedup", ID: id, Msg: key})
			return id, nil
		}

		task, err := o.Tasks.Create(key, requesterID, url, cls.Platform.String())
		if err != nil {
			if stderrors.Is(err, errors.ErrDuplicateActiveRequest) {
				// Lost the race to a concurrent submit for the same video.
				// The winner may already be terminal by now, so retry from
				// the lookup: either we join its still-active task or we
				// create a fresh one.
				continue
			}
			return "", err
		}

		o.emit(Event{Phase: "submitted", ID: task.ID, Msg: url})
		o.wg.Add(1)
		go o.run(task.ID, url, cls)

		return task.ID, nil
	}
}

// Status returns a snapshot of a task for pollers.
func (o *Orchestrator) Status(taskID string) (*model.Task, error) {
	return o.Tasks.Get(taskID)
}

// ConfirmDelivery records that the file reached the requester: the file is
// deleted and the task becomes eligible for immediate reaping. Confirming an
// unknown, unfinished, or already reclaimed task is a no-op so the transport
// may retry the call freely.
func (o *Orchestrator) ConfirmDelivery(taskID string) {
	task, err := o.Tasks.Get(taskID)
	if err != nil || task.Status != model.StatusCompleted {
		return
	}

	if task.FilePath != "" {
		o.Files.Delete(task.FilePath)
		o.Tasks.ClearFile(taskID)
	}
	o.Tasks.MarkDelivered(taskID)
	o.emit(Event{Phase: "delivered", ID: taskID})
}

// Wait blocks until all in-flight retrievals finish. Used during shutdown
// and in tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// run drives one download to a terminal state. It deliberately does not
// inherit the submit context: the caller's HTTP request ending must not abort
// a download other pollers may be waiting on.
func (o *Orchestrator) run(taskID, url string, cls platform.Classification) {
	defer o.wg.Done()

	if o.Retriever == nil {
		// The one case where a task fails without ever reaching downloading.
		o.fail(taskID, download.NewFailure(download.KindUnknown, "retriever is not configured"))
		return
	}

	if err := o.Tasks.Transition(taskID, model.StatusDownloading, registry.Payload{}); err != nil {
		logger.Error("could not start download", logger.Fields{"task": taskID, "error": err})
		return
	}
	metrics.DownloadsStarted.Inc()
	metrics.DownloadsActive.Inc()
	defer metrics.DownloadsActive.Dec()
	o.emit(Event{Phase: "downloading", ID: taskID})

	destPath := o.Files.AllocatePath(cls.VideoID, o.opts.Format)
	constraints := download.Constraints{
		MaxSizeBytes: o.opts.MaxSizeBytes,
		Format:       o.opts.Format,
		UserAgent:    o.opts.UserAgent,
	}
	progress := func(p float64) {
		// Decreasing fractions are dropped by the registry.
		_ = o.Tasks.Transition(taskID, model.StatusDownloading, registry.ProgressPayload(p))
	}

	var lastFailure *download.Failure
	for attempt := 1; attempt <= o.opts.MaxRetries; attempt++ {
		result, err := o.retrieveOnce(url, destPath, constraints, progress)
		if err == nil {
			o.complete(taskID, result)
			return
		}

		lastFailure = asFailure(err)
		if !lastFailure.Transient() {
			break
		}
		logger.Warn("transient retrieval failure", logger.Fields{
			"task":    taskID,
			"attempt": attempt,
			"error":   lastFailure.Message,
		})
		if attempt < o.opts.MaxRetries {
			time.Sleep(o.opts.RetryBackoff << (attempt - 1))
		}
	}

	o.fail(taskID, lastFailure)
}

func (o *Orchestrator) retrieveOnce(url, destPath string, c download.Constraints, progress download.ProgressFunc) (*download.Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), o.opts.AttemptTimeout)
	defer cancel()
	return o.Retriever.Retrieve(ctx, url, destPath, c, progress)
}

func (o *Orchestrator) complete(taskID string, result *download.Result) {
	err := o.Tasks.Transition(taskID, model.StatusCompleted, registry.Payload{
		FilePath: result.Path,
		FileSize: result.Size,
	})
	if err != nil {
		logger.Error("could not record completion", logger.Fields{"task": taskID, "error": err})
		return
	}
	metrics.DownloadsCompleted.Inc()
	o.emit(Event{Phase: "completed", ID: taskID, Msg: result.Path})
}

func (o *Orchestrator) fail(taskID string, failure *download.Failure) {
	err := o.Tasks.Transition(taskID, model.StatusFailed, registry.Payload{ErrorMsg: failure.Message})
	if err != nil {
		logger.Error("could not record failure", logger.Fields{"task": taskID, "error": err})
		return
	}
	metrics.DownloadsFailed.WithLabelValues(string(failure.Kind)).Inc()
	o.emit(Event{Phase: "failed", ID: taskID, Msg: failure.Message})
}

func (o *Orchestrator) emit(e Event) {
	if o.Hooks.OnEvent != nil {
		o.Hooks.OnEvent(e)
	}
}

func asFailure(err error) *download.Failure {
	var failure *download.Failure
	if stderrors.As(err, &failure) {
		return failure
	}
	return download.NewFailure(download.KindUnknown, err.Error())
}
