// Package store implements persistence over flat JSON files.
//
// Each Collection binds one file path to one record type. There is no
// long-lived in-memory copy of a collection: every operation reads the
// current on-disk state, and every mutation is a whole-collection
// read-modify-write executed under the collection's mutex. The mutex is the
// single-writer queue that makes concurrent mutations to the same file safe —
// without it, two interleaved load/save cycles silently lose the first
// writer's update.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Collection is a JSON-file-backed list of records of type T.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

// NewCollection binds a collection to a file path. The file (and its parent
// directories) are created on first write, not here.
func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// Load returns the current on-disk records. An absent file is an empty
// collection, not an error; malformed content is surfaced to the caller.
func (c *Collection[T]) Load() ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Update loads the current records, applies fn, and persists the result, all
// under the collection lock. An error from fn aborts the write and is
// returned unchanged. The returned slice is the state that was saved.
func (c *Collection[T]) Update(fn func([]T) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.read()
	if err != nil {
		return nil, err
	}

	updated, err := fn(records)
	if err != nil {
		return nil, err
	}

	if err := c.write(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Collection[T]) read() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("store: reading %s: %w", c.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: decoding %s: %w", c.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// write serializes the whole collection to a temp file in the same directory
// and renames it over the target, so a crash mid-write never leaves a
// truncated file behind.
func (c *Collection[T]) write(records []T) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: creating %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encoding %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("store: creating temp file for %s: %w", c.path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: closing %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: replacing %s: %w", c.path, err)
	}
	return nil
}
