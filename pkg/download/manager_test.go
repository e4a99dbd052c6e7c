package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrieve_Success(t *testing.T) {
	content := strings.Repeat("v", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	r := NewHTTPRetriever(nil)

	var fractions []float64
	result, err := r.Retrieve(context.Background(), server.URL, dest, Constraints{MaxSizeBytes: 1 << 20},
		func(p float64) { fractions = append(fractions, p) })
	require.NoError(t, err)

	assert.Equal(t, dest, result.Path)
	assert.Equal(t, int64(len(content)), result.Size)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	require.NotEmpty(t, fractions)
	assert.Equal(t, 1.0, fractions[len(fractions)-1])

	// No stray partial files in the destination directory.
	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRetrieve_UserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	r := NewHTTPRetriever(nil)

	_, err := r.Retrieve(context.Background(), server.URL, dest, Constraints{UserAgent: "clipsaver-test/1.0"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "clipsaver-test/1.0", gotUA)
}

func TestRetrieve_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind FailureKind
	}{
		{"not found", http.StatusNotFound, KindUnavailable},
		{"gone", http.StatusGone, KindUnavailable},
		{"forbidden", http.StatusForbidden, KindInvalid},
		{"server error", http.StatusInternalServerError, KindNetwork},
		{"bad gateway", http.StatusBadGateway, KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			dest := filepath.Join(t.TempDir(), "video.mp4")
			r := NewHTTPRetriever(nil)

			_, err := r.Retrieve(context.Background(), server.URL, dest, Constraints{}, nil)
			require.Error(t, err)

			var failure *Failure
			require.True(t, errors.As(err, &failure))
			assert.Equal(t, tt.wantKind, failure.Kind)
			assert.NotEmpty(t, failure.Message)

			_, statErr := os.Stat(dest)
			assert.True(t, os.IsNotExist(statErr), "no file may be left behind")
		})
	}
}

func TestRetrieve_TooLargeByContentLength(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", "1048576")
		_, _ = w.Write(make([]byte, 1048576))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	r := NewHTTPRetriever(nil)

	_, err := r.Retrieve(context.Background(), server.URL, dest, Constraints{MaxSizeBytes: 1024}, nil)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, KindTooLarge, failure.Kind)
	assert.False(t, failure.Transient())
}

func TestRetrieve_TooLargeMidStream(t *testing.T) {
	// No Content-Length: the limit must still be enforced while copying.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Transfer-Encoding", "chunked")
		for i := 0; i < 64; i++ {
			_, _ = w.Write(make([]byte, 1024))
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "video.mp4")
	r := NewHTTPRetriever(nil)

	_, err := r.Retrieve(context.Background(), server.URL, dest, Constraints{MaxSizeBytes: 4096}, nil)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, KindTooLarge, failure.Kind)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "oversized partial download must be removed")
}

func TestRetrieve_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	dest := filepath.Join(t.TempDir(), "video.mp4")
	r := NewHTTPRetriever(nil)

	_, err := r.Retrieve(ctx, server.URL, dest, Constraints{}, nil)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, KindNetwork, failure.Kind)
	assert.True(t, failure.Transient())
}

func TestRetrieve_ConnectionRefused(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "video.mp4")
	r := NewHTTPRetriever(nil)

	_, err := r.Retrieve(context.Background(), "http://127.0.0.1:1/video", dest, Constraints{}, nil)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, KindNetwork, failure.Kind)
}

func TestFailureTransient(t *testing.T) {
	assert.True(t, NewFailure(KindNetwork, "timeout").Transient())
	for _, kind := range []FailureKind{KindUnavailable, KindTooLarge, KindInvalid, KindUnknown} {
		assert.False(t, NewFailure(kind, "x").Transient())
	}
}
