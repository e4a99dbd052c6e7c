package model

// TaskStatus represents the lifecycle state of a download task.
type TaskStatus string

const (
	// StatusPending means the task has been created but retrieval has not started.
	StatusPending TaskStatus = "pending"

	// StatusDownloading means the retrieval is in progress.
	StatusDownloading TaskStatus = "downloading"

	// StatusCompleted means the video was downloaded successfully.
	StatusCompleted TaskStatus = "completed"

	// StatusFailed means the task failed with an error.
	StatusFailed TaskStatus = "failed"
)

// validTransitions encodes the allowed status transitions. A pending task may
// fail directly (for example when the output path cannot be allocated before
// retrieval starts); any task that starts retrieval passes through downloading.
var validTransitions = map[TaskStatus][]TaskStatus{
	StatusPending:     {StatusDownloading, StatusFailed},
	StatusDownloading: {StatusCompleted, StatusFailed},
	StatusCompleted:   {},
	StatusFailed:      {},
}

// String returns the string representation of the status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is absorbing.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsActive reports whether a task in this status still occupies its request key.
func (s TaskStatus) IsActive() bool {
	return s == StatusPending || s == StatusDownloading
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Re-entering downloading is permitted so progress updates can be applied.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == StatusDownloading && next == StatusDownloading {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
