package model

import "time"

// Task represents one tracked video download. Records are owned by the
// registry; callers only ever see copies produced by Clone.
type Task struct {
	ID          string     `json:"id"`
	RequestKey  string     `json:"request_key"`
	RequesterID string     `json:"requester_id"`
	URL         string     `json:"url"`
	Platform    string     `json:"platform"`
	Status      TaskStatus `json:"status"`
	Progress    float64    `json:"progress"` // 0.0 to 1.0
	FilePath    string     `json:"file_path,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
	ErrorMsg    string     `json:"error,omitempty"`
	Delivered   bool       `json:"delivered"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt time.Time  `json:"completed_at,omitzero"`
}

// Clone returns a copy of the task safe to hand out to concurrent pollers.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// HasFile reports whether the task still references a downloadable file.
func (t *Task) HasFile() bool {
	return t.Status == StatusCompleted && t.FilePath != ""
}
