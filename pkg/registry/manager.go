// Package registry is the in-memory table of download tasks. It owns the task
// state machine: all mutations are serialized behind one lock, reads hand out
// snapshot copies, and at most one active task exists per request key.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/pkg/errors"
	"github.com/clipsaver/clipsaver/pkg/model"
)

// Payload carries the optional data accompanying a status transition:
// a progress fraction while downloading, the file location on completion,
// or the error message on failure.
type Payload struct {
	Progress *float64
	FilePath string
	FileSize int64
	ErrorMsg string
}

// ProgressPayload is a convenience constructor for progress updates.
func ProgressPayload(p float64) Payload {
	return Payload{Progress: &p}
}

// Manager is the task registry.
type Manager struct {
	mu     sync.RWMutex
	tasks  map[string]*model.Task
	active map[string]string // request key -> active task id
}

// NewManager creates an empty task registry.
func NewManager() *Manager {
	return &Manager{
		tasks:  make(map[string]*model.Task),
		active: make(map[string]string),
	}
}

// Create allocates a new pending task. It fails with
// ErrDuplicateActiveRequest when an active task with the same request key
// already exists; the check and the insert happen under one lock so two
// concurrent creates for one key can never both succeed.
func (m *Manager) Create(requestKey, requesterID, url, platformName string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.active[requestKey]; ok {
		return nil, errors.Wrapf(errors.ErrDuplicateActiveRequest, "task %s", existing)
	}

	task := &model.Task{
		ID:          uuid.NewString(),
		RequestKey:  requestKey,
		RequesterID: requesterID,
		URL:         url,
		Platform:    platformName,
		Status:      model.StatusPending,
		CreatedAt:   time.Now(),
	}
	m.tasks[task.ID] = task
	m.active[requestKey] = task.ID

	logger.Info("created task", logger.Fields{
		"task":      task.ID,
		"key":       requestKey,
		"requester": requesterID,
	})
	return task.Clone(), nil
}

// FindActive returns the id of the pending or downloading task for a request
// key, if any.
func (m *Manager) FindActive(requestKey string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.active[requestKey]
	return id, ok
}

// Get returns a snapshot of a task.
func (m *Manager) Get(taskID string) (*model.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return nil, errors.Wrapf(errors.ErrTaskNotFound, "%s", taskID)
	}
	return task.Clone(), nil
}

// Transition applies a status change with its payload. Invalid transitions
// are rejected with ErrInvalidTransition and leave the record untouched.
// Progress updates that would decrease the recorded progress are dropped
// without error, so out-of-order adapter callbacks cannot make progress run
// backwards.
func (m *Manager) Transition(taskID string, next model.TaskStatus, payload Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[taskID]
	if !ok {
		return errors.Wrapf(errors.ErrTaskNotFound, "%s", taskID)
	}

	current := task.Status
	if !current.CanTransitionTo(next) {
		logger.Error("rejected invalid transition", logger.Fields{
			"task": taskID,
			"from": current.String(),
			"to":   next.String(),
		})
		return errors.Wrapf(errors.ErrInvalidTransition, "task %s: %s -> %s", taskID, current, next)
	}

	switch next {
	case model.StatusCompleted:
		if payload.FilePath == "" {
			return errors.Wrapf(errors.ErrMissingFilePath, "task %s", taskID)
		}
	case model.StatusFailed:
		if payload.ErrorMsg == "" {
			return errors.Wrapf(errors.ErrMissingErrorMessage, "task %s", taskID)
		}
	}

	if payload.Progress != nil {
		p := clamp(*payload.Progress)
		if current == model.StatusDownloading && next == model.StatusDownloading && p < task.Progress {
			// Late out-of-order update, drop it.
			return nil
		}
		task.Progress = p
	}

	task.Status = next
	switch next {
	case model.StatusCompleted:
		task.FilePath = payload.FilePath
		task.FileSize = payload.FileSize
		task.Progress = 1.0
		task.CompletedAt = time.Now()
	case model.StatusFailed:
		task.ErrorMsg = payload.ErrorMsg
		task.CompletedAt = time.Now()
	}

	if next.IsTerminal() {
		m.releaseActiveLocked(task)
	}

	if current != next {
		logger.Info("task transition", logger.Fields{
			"task": taskID,
			"from": current.String(),
			"to":   next.String(),
		})
	}
	return nil
}

// ClearFile drops the file reference of a completed task after the file has
// been reclaimed, so the record never dangles to a missing path.
func (m *Manager) ClearFile(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if task, ok := m.tasks[taskID]; ok {
		task.FilePath = ""
	}
}

// ReleaseFile removes the completed task record whose file reference matches
// a reclaimed path. Once the file is gone the record would only tell pollers
// a lie, so it is removed rather than left pointing at nothing. Returns false
// when no completed record references the path.
func (m *Manager) ReleaseFile(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, task := range m.tasks {
		if task.Status == model.StatusCompleted && task.FilePath == path {
			delete(m.tasks, id)
			logger.Info("released task for reclaimed file", logger.Fields{
				"task": id,
				"path": path,
			})
			return true
		}
	}
	return false
}

// MarkDelivered flags a completed task as delivered, making it eligible for
// immediate reaping. Returns false for unknown or non-completed tasks.
func (m *Manager) MarkDelivered(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[taskID]
	if !ok || task.Status != model.StatusCompleted {
		return false
	}
	task.Delivered = true
	return true
}

// Sweep removes terminal task records that are either delivered or older than
// maxAge, and returns the number removed. Non-terminal records are never
// removed regardless of age: a stuck download is something to surface, not
// silently erase.
func (m *Manager) Sweep(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	now := time.Now()
	for id, task := range m.tasks {
		if !task.Status.IsTerminal() {
			continue
		}
		if !task.Delivered && now.Sub(task.CompletedAt) <= maxAge {
			continue
		}
		delete(m.tasks, id)
		removed++
	}

	if removed > 0 {
		logger.Info("swept task records", logger.Fields{"count": removed, "max_age": maxAge})
	}
	return removed
}

// ActiveCount returns the number of pending or downloading tasks.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Len returns the total number of task records.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tasks)
}

func (m *Manager) releaseActiveLocked(task *model.Task) {
	if id, ok := m.active[task.RequestKey]; ok && id == task.ID {
		delete(m.active, task.RequestKey)
	}
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
