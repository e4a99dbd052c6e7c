//go:generate mockgen -destination=./mocks/orchestrator.go -package=mocks . TaskStore,FileStore,Retriever

package orchestrator

import (
	"context"
	"time"

	"github.com/clipsaver/clipsaver/pkg/download"
	"github.com/clipsaver/clipsaver/pkg/model"
	"github.com/clipsaver/clipsaver/pkg/registry"
)

// TaskStore is the subset of the task registry used by the orchestrator.
type TaskStore interface {
	Create(requestKey, requesterID, url, platformName string) (*model.Task, error)
	FindActive(requestKey string) (string, bool)
	Get(taskID string) (*model.Task, error)
	Transition(taskID string, next model.TaskStatus, payload registry.Payload) error
	ClearFile(taskID string)
	MarkDelivered(taskID string) bool
}

// FileStore is the subset of the storage manager used by the orchestrator.
type FileStore interface {
	AllocatePath(videoID, ext string) string
	Delete(path string) bool
}

// Retriever fetches video bytes; see pkg/download.
type Retriever interface {
	Retrieve(ctx context.Context, url, destPath string, c download.Constraints, progress download.ProgressFunc) (*download.Result, error)
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // submitted|dedup|downloading|completed|failed|delivered
	ID    string // task id
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control retrieval execution.
type Options struct {
	MaxSizeBytes   int64
	Format         string
	UserAgent      string
	AttemptTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration // base delay, doubled per attempt
}

// Default execution values applied when an option is unset.
const (
	DefaultAttemptTimeout = 90 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryBackoff   = 2 * time.Second
)

func (o Options) withDefaults() Options {
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = DefaultAttemptTimeout
	}
	if o.MaxRetries < 1 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
	if o.Format == "" {
		o.Format = "mp4"
	}
	return o
}
