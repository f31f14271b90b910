// Package filestore persists the task collection as a pretty-printed JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/metalagman/taskboard/internal/task"
	"github.com/rs/zerolog/log"
)

const indent = "    "

// Store reads and writes the whole task collection from a single file.
type Store struct {
	path string
}

// New creates a file store for path. The file does not need to exist.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored tasks, or an empty collection when the file is
// missing, unreadable or not a JSON array of tasks.
func (s *Store) Load(_ context.Context) []task.Task {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug().Str("path", s.path).Msg("task file missing, starting empty")
		} else {
			log.Warn().Err(err).Str("path", s.path).Msg("read task file")
		}
		return []task.Task{}
	}
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("parse task file")
		return []task.Task{}
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks
}

// Save replaces the file contents with tasks. The data is written to a
// temporary file in the same directory and renamed over the target.
func (s *Store) Save(_ context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", indent)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}
