// Package download implements video retrieval. The HTTP retriever streams the
// response body to a temporary file next to the destination and renames it
// into place only when the download finished inside its size constraint, so a
// failed or oversized attempt never leaves a partial file behind.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/clipsaver/clipsaver/internal/logger"
)

const (
	defaultUserAgent = "clipsaver/1.0"
	copyChunkSize    = 32 * 1024
)

// HTTPRetriever is an HTTP-based Retriever.
type HTTPRetriever struct {
	client *http.Client
}

var _ Retriever = (*HTTPRetriever)(nil)

// NewHTTPRetriever creates a retriever backed by the given client. A nil
// client gets a default one; per-attempt deadlines come from the context, not
// from a client timeout.
func NewHTTPRetriever(client *http.Client) *HTTPRetriever {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPRetriever{client: client}
}

// Retrieve downloads url into destPath.
func (r *HTTPRetriever) Retrieve(ctx context.Context, url, destPath string, c Constraints, progress ProgressFunc) (*Result, error) {
	resp, err := r.doRequest(ctx, url, c)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if kind := classifyStatus(resp.StatusCode); kind != "" {
		return nil, NewFailure(kind, fmt.Sprintf("unexpected status %d fetching video", resp.StatusCode))
	}

	total := resp.ContentLength
	if c.MaxSizeBytes > 0 && total > c.MaxSizeBytes {
		return nil, tooLarge(total, c.MaxSizeBytes)
	}

	size, err := r.writeBody(resp.Body, destPath, total, c.MaxSizeBytes, progress)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress(1.0)
	}
	logger.Debug("retrieval finished", logger.Fields{"url": url, "path": destPath, "size": size})
	return &Result{Path: destPath, Size: size}, nil
}

func (r *HTTPRetriever) doRequest(ctx context.Context, url string, c Constraints) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, NewFailure(KindInvalid, fmt.Sprintf("failed to build request: %v", err))
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	return resp, nil
}

// writeBody streams the body into a temp file beside destPath and renames it
// into place. The size constraint is enforced mid-stream: Content-Length is
// advisory and servers lie.
func (r *HTTPRetriever) writeBody(body io.Reader, destPath string, total, maxSize int64, progress ProgressFunc) (int64, error) {
	dir := filepath.Dir(destPath)
	tmp, err := os.CreateTemp(dir, "dl-*.part")
	if err != nil {
		return 0, NewFailure(KindUnknown, fmt.Sprintf("could not create temp file: %v", err))
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	var written int64
	buf := make([]byte, copyChunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := tmp.Write(buf[:n]); writeErr != nil {
				cleanup()
				return 0, NewFailure(KindUnknown, fmt.Sprintf("could not write file: %v", writeErr))
			}
			written += int64(n)
			if maxSize > 0 && written > maxSize {
				cleanup()
				return 0, tooLarge(written, maxSize)
			}
			if progress != nil && total > 0 {
				progress(float64(written) / float64(total))
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			cleanup()
			return 0, classifyTransportError(readErr)
		}
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return 0, NewFailure(KindUnknown, fmt.Sprintf("could not sync file: %v", err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, NewFailure(KindUnknown, fmt.Sprintf("could not close file: %v", err))
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return 0, NewFailure(KindUnknown, fmt.Sprintf("could not finalize file: %v", err))
	}
	return written, nil
}

// classifyStatus maps a response status to a failure kind; empty means OK.
func classifyStatus(code int) FailureKind {
	switch {
	case code == http.StatusOK:
		return ""
	case code == http.StatusNotFound || code == http.StatusGone:
		return KindUnavailable
	case code >= 400 && code < 500:
		return KindInvalid
	case code >= 500:
		return KindNetwork
	default:
		return KindUnknown
	}
}

func classifyTransportError(err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFailure(KindNetwork, "retrieval attempt timed out")
	}
	if errors.Is(err, context.Canceled) {
		return NewFailure(KindNetwork, "retrieval canceled")
	}
	return NewFailure(KindNetwork, fmt.Sprintf("download failed: %v", err))
}

func tooLarge(size, maxSize int64) *Failure {
	return NewFailure(KindTooLarge, fmt.Sprintf(
		"video too large: %.1fMB (max: %.1fMB)",
		float64(size)/(1024*1024), float64(maxSize)/(1024*1024)))
}
