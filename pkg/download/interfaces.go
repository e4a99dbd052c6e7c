package download

import "context"

// Retriever fetches the bytes of a video into a destination path. It is the
// boundary the orchestrator drives; implementations report progress through
// the callback and classify terminal failures via *Failure so the caller can
// decide what is worth retrying.
type Retriever interface {
	// Retrieve downloads url into destPath, honoring the constraints. On
	// success the file exists at destPath. On failure no file is left behind
	// and the returned error is (or wraps) a *Failure.
	Retrieve(ctx context.Context, url, destPath string, c Constraints, progress ProgressFunc) (*Result, error)
}

// Constraints bound a single retrieval attempt.
type Constraints struct {
	MaxSizeBytes int64  // reject larger downloads; 0 means unlimited
	Format       string // requested container format, advisory
	UserAgent    string // sent with retrieval requests
}

// Result describes a successful retrieval.
type Result struct {
	Path string
	Size int64
}

// ProgressFunc receives download fractions in [0, 1]. Implementations may
// call it from the retrieval goroutine at any cadence; callers must tolerate
// out-of-order fractions.
type ProgressFunc func(float64)

// FailureKind classifies a terminal retrieval failure.
type FailureKind string

const (
	// KindNetwork covers timeouts and transport failures; worth retrying.
	KindNetwork FailureKind = "network"
	// KindUnavailable means the video is gone, private, or never existed.
	KindUnavailable FailureKind = "unavailable"
	// KindTooLarge means the size constraint was exceeded.
	KindTooLarge FailureKind = "too_large"
	// KindInvalid means the request itself was rejected.
	KindInvalid FailureKind = "invalid"
	// KindUnknown covers everything else.
	KindUnknown FailureKind = "unknown"
)

// Failure is a classified retrieval error.
type Failure struct {
	Kind    FailureKind
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Transient reports whether the failure is worth retrying.
func (f *Failure) Transient() bool {
	return f.Kind == KindNetwork
}

// NewFailure builds a classified failure.
func NewFailure(kind FailureKind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}
