package registry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/clipsaver/clipsaver/pkg/errors"
	"github.com/clipsaver/clipsaver/pkg/model"
)

func createTask(t *testing.T, m *Manager, key string) *model.Task {
	t.Helper()
	task, err := m.Create(key, "user-7", "https://example.com/v", "tiktok")
	require.NoError(t, err)
	return task
}

func TestCreateAndGet(t *testing.T) {
	m := NewManager()

	task := createTask(t, m, "tiktok:123")
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, "tiktok:123", task.RequestKey)
	assert.False(t, task.CreatedAt.IsZero())

	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = m.Get("missing")
	assert.True(t, errors.Is(err, pkgerrors.ErrTaskNotFound))
}

func TestCreateDuplicateActive(t *testing.T) {
	m := NewManager()

	first := createTask(t, m, "tiktok:123")

	_, err := m.Create("tiktok:123", "user-8", "https://example.com/v", "tiktok")
	assert.True(t, errors.Is(err, pkgerrors.ErrDuplicateActiveRequest))

	id, ok := m.FindActive("tiktok:123")
	require.True(t, ok)
	assert.Equal(t, first.ID, id)

	// A different key is unaffected.
	_, err = m.Create("tiktok:456", "user-8", "https://example.com/w", "tiktok")
	assert.NoError(t, err)
}

func TestRequestKeyFreedAfterTerminal(t *testing.T) {
	m := NewManager()

	first := createTask(t, m, "tiktok:123")
	require.NoError(t, m.Transition(first.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(first.ID, model.StatusFailed, Payload{ErrorMsg: "network timeout"}))

	_, ok := m.FindActive("tiktok:123")
	assert.False(t, ok)

	// A later identical request creates a brand new task.
	second := createTask(t, m, "tiktok:123")
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTransitionLifecycle(t *testing.T) {
	m := NewManager()
	task := createTask(t, m, "k")

	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, ProgressPayload(0.5)))
	require.NoError(t, m.Transition(task.ID, model.StatusCompleted, Payload{FilePath: "/tmp/v.mp4", FileSize: 42}))

	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "/tmp/v.mp4", got.FilePath)
	assert.Equal(t, int64(42), got.FileSize)
	assert.Equal(t, 1.0, got.Progress)
	assert.False(t, got.CompletedAt.IsZero())
}

func TestTransitionInvalid(t *testing.T) {
	m := NewManager()
	task := createTask(t, m, "k")

	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(task.ID, model.StatusCompleted, Payload{FilePath: "/tmp/v.mp4"}))

	// Terminal states are absorbing; the record is left untouched.
	err := m.Transition(task.ID, model.StatusDownloading, Payload{})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidTransition))
	err = m.Transition(task.ID, model.StatusFailed, Payload{ErrorMsg: "late failure"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidTransition))

	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Empty(t, got.ErrorMsg)
}

func TestTransitionPayloadRequirements(t *testing.T) {
	m := NewManager()

	task := createTask(t, m, "k1")
	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, Payload{}))

	err := m.Transition(task.ID, model.StatusCompleted, Payload{})
	assert.True(t, errors.Is(err, pkgerrors.ErrMissingFilePath))

	err = m.Transition(task.ID, model.StatusFailed, Payload{})
	assert.True(t, errors.Is(err, pkgerrors.ErrMissingErrorMessage))

	// The rejected transitions changed nothing.
	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDownloading, got.Status)

	err = m.Transition("missing", model.StatusDownloading, Payload{})
	assert.True(t, errors.Is(err, pkgerrors.ErrTaskNotFound))
}

func TestProgressMonotonic(t *testing.T) {
	m := NewManager()
	task := createTask(t, m, "k")
	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, Payload{}))

	observed := []float64{}
	for _, p := range []float64{0.1, 0.4, 0.3, 0.8} {
		require.NoError(t, m.Transition(task.ID, model.StatusDownloading, ProgressPayload(p)))
		got, err := m.Get(task.ID)
		require.NoError(t, err)
		if len(observed) == 0 || got.Progress != observed[len(observed)-1] {
			observed = append(observed, got.Progress)
		}
	}

	// The out-of-order 0.3 update is dropped.
	assert.Equal(t, []float64{0.1, 0.4, 0.8}, observed)
}

func TestProgressClamped(t *testing.T) {
	m := NewManager()
	task := createTask(t, m, "k")
	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, ProgressPayload(1.7)))

	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Progress)
}

func TestFailedRequiresMessage(t *testing.T) {
	m := NewManager()
	task := createTask(t, m, "k")
	require.NoError(t, m.Transition(task.ID, model.StatusFailed, Payload{ErrorMsg: "path allocation failed"}))

	got, err := m.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.NotEmpty(t, got.ErrorMsg)
}

func TestSweep(t *testing.T) {
	m := NewManager()

	// Old failed task: swept.
	oldFailed := createTask(t, m, "k1")
	require.NoError(t, m.Transition(oldFailed.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(oldFailed.ID, model.StatusFailed, Payload{ErrorMsg: "boom"}))
	backdate(t, m, oldFailed.ID, 2*time.Hour)

	// Fresh completed task: kept.
	freshDone := createTask(t, m, "k2")
	require.NoError(t, m.Transition(freshDone.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(freshDone.ID, model.StatusCompleted, Payload{FilePath: "/tmp/a.mp4"}))

	// Delivered task: swept regardless of age.
	delivered := createTask(t, m, "k3")
	require.NoError(t, m.Transition(delivered.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(delivered.ID, model.StatusCompleted, Payload{FilePath: "/tmp/b.mp4"}))
	require.True(t, m.MarkDelivered(delivered.ID))

	// Ancient but still downloading: never swept.
	stuck := createTask(t, m, "k4")
	require.NoError(t, m.Transition(stuck.ID, model.StatusDownloading, Payload{}))

	removed := m.Sweep(time.Hour)
	assert.Equal(t, 2, removed)

	_, err := m.Get(oldFailed.ID)
	assert.Error(t, err)
	_, err = m.Get(delivered.ID)
	assert.Error(t, err)
	_, err = m.Get(freshDone.ID)
	assert.NoError(t, err)
	_, err = m.Get(stuck.ID)
	assert.NoError(t, err)
}

func TestReleaseFile(t *testing.T) {
	m := NewManager()

	done := createTask(t, m, "k1")
	require.NoError(t, m.Transition(done.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(done.ID, model.StatusCompleted, Payload{FilePath: "/tmp/clip.mp4"}))

	// A downloading task is never released, whatever path it may carry.
	active := createTask(t, m, "k2")
	require.NoError(t, m.Transition(active.ID, model.StatusDownloading, Payload{}))

	assert.False(t, m.ReleaseFile("/tmp/other.mp4"))
	assert.True(t, m.ReleaseFile("/tmp/clip.mp4"))
	assert.False(t, m.ReleaseFile("/tmp/clip.mp4"), "record already removed")

	_, err := m.Get(done.ID)
	assert.Error(t, err, "released record must be gone")
	_, err = m.Get(active.ID)
	assert.NoError(t, err)
}

func TestMarkDelivered(t *testing.T) {
	m := NewManager()

	task := createTask(t, m, "k")
	assert.False(t, m.MarkDelivered(task.ID), "pending task cannot be delivered")
	assert.False(t, m.MarkDelivered("missing"))

	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, Payload{}))
	require.NoError(t, m.Transition(task.ID, model.StatusCompleted, Payload{FilePath: "/tmp/v.mp4"}))
	assert.True(t, m.MarkDelivered(task.ID))
	assert.True(t, m.MarkDelivered(task.ID), "repeat confirmation stays idempotent")
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	m := NewManager()

	const callers = 32
	var wg sync.WaitGroup
	created := make(chan string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := m.Create("tiktok:123", "user", "https://example.com/v", "tiktok")
			if err == nil {
				created <- task.ID
			}
		}()
	}
	wg.Wait()
	close(created)

	ids := []string{}
	for id := range created {
		ids = append(ids, id)
	}
	require.Len(t, ids, 1, "exactly one concurrent create may win")

	active, ok := m.FindActive("tiktok:123")
	require.True(t, ok)
	assert.Equal(t, ids[0], active)
	assert.Equal(t, 1, m.Len())
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	m := NewManager()
	task := createTask(t, m, "k")
	require.NoError(t, m.Transition(task.ID, model.StatusDownloading, Payload{}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := m.Get(task.ID)
				if !assert.NoError(t, err) {
					return
				}
				// Snapshots are internally consistent.
				if got.Status == model.StatusCompleted {
					assert.NotEmpty(t, got.FilePath)
					assert.Equal(t, 1.0, got.Progress)
				}
			}
		}()
	}

	for p := 0.0; p <= 1.0; p += 0.01 {
		require.NoError(t, m.Transition(task.ID, model.StatusDownloading, ProgressPayload(p)))
	}
	require.NoError(t, m.Transition(task.ID, model.StatusCompleted, Payload{FilePath: "/tmp/v.mp4"}))
	wg.Wait()
}

// backdate rewrites a terminal task's completion time for sweep tests.
func backdate(t *testing.T, m *Manager, id string, by time.Duration) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	require.True(t, ok)
	task.CompletedAt = time.Now().Add(-by)
}
