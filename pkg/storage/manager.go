// Package storage owns the temporary-file namespace for downloaded videos:
// path allocation, age inspection, deletion, and age-based reclamation.
// No other component writes to the temp root directly.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipsaver/clipsaver/internal/logger"
	"github.com/clipsaver/clipsaver/pkg/errors"
)

const dirMode = os.FileMode(0o755)

// Manager handles the lifecycle of temporary video files under one root.
type Manager struct {
	root string
}

// NewManager creates a storage manager rooted at dir, creating the directory
// if needed.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, errors.ErrStorageDirectory
	}
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid storage root %s", dir)
	}
	if err := os.MkdirAll(absRoot, dirMode); err != nil {
		return nil, errors.Wrapf(err, "failed to create storage root %s", absRoot)
	}
	logger.Debug("storage root ready", logger.Fields{"root": absRoot})
	return &Manager{root: absRoot}, nil
}

// Root returns the absolute storage root.
func (m *Manager) Root() string {
	return m.root
}

// AllocatePath returns a collision-free path for a video under the root.
// The file itself is not created. The random suffix keeps repeated downloads
// of the same video from clobbering each other.
func (m *Manager) AllocatePath(videoID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mp4"
	}
	suffix := uuid.NewString()[:8]
	name := fmt.Sprintf("%s_%s.%s", sanitize(videoID), suffix, ext)
	return filepath.Join(m.root, name)
}

// FileAge returns how long ago the file was last modified.
func (m *Manager) FileAge(path string) (time.Duration, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, errors.Wrapf(errors.ErrFileNotFound, "%s", path)
		}
		return 0, errors.Wrapf(err, "failed to stat %s", path)
	}
	return time.Since(info.ModTime()), nil
}

// Delete removes a file. It is idempotent: deleting an absent file returns
// false without an error. I/O failures are logged and leave the file for the
// reaper to retry.
func (m *Manager) Delete(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if err := os.Remove(path); err != nil {
		logger.Error("failed to delete file", logger.Fields{"path": path, "error": err})
		return false
	}
	logger.Debug("deleted file", logger.Fields{"path": path})
	return true
}

// ReclaimExpired deletes every regular file under the root strictly older
// than maxAge and returns the paths it deleted, so the caller can release
// any task records still referencing them. Files younger than maxAge are
// never touched. A failure on one file is logged and does not stop the sweep.
func (m *Manager) ReclaimExpired(maxAge time.Duration) []string {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		logger.Error("failed to scan storage root", logger.Fields{"root": m.root, "error": err})
		return nil
	}

	var deleted []string
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Warn("failed to stat file during reclaim", logger.Fields{"name": entry.Name(), "error": err})
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		path := filepath.Join(m.root, entry.Name())
		if m.Delete(path) {
			deleted = append(deleted, path)
		}
	}

	if len(deleted) > 0 {
		logger.Info("reclaimed expired files", logger.Fields{"count": len(deleted), "max_age": maxAge})
	}
	return deleted
}

// Files lists the regular files currently under the root.
func (m *Manager) Files() ([]string, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list storage root %s", m.root)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(m.root, entry.Name()))
		}
	}
	return files, nil
}

// TotalSize returns the combined size in bytes of all files under the root.
func (m *Manager) TotalSize() int64 {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return 0
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err == nil {
			total += info.Size()
		}
	}
	return total
}

// sanitize strips path separators from identifiers used in file names.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, string(filepath.Separator), "-")
	if s == "" {
		return "video"
	}
	return s
}
