// Package jsonstore is the flat-file record-store backend: one JSON array
// file per collection. Every read-modify-write cycle runs under the
// collection lock, which is what prevents lost updates when two bookings
// race for the same trip's last seats. The lock is two-layered: a mutex for
// goroutines inside one process, and an exclusive flock on a sidecar file
// for the api and worker binaries sharing one data directory.
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/dchgoh/SWE30003-ART-System/internal/storage"
)

// Collection stores records of type T in a single JSON file. Missing, empty
// or corrupt files read as an empty collection.
type Collection[T any] struct {
	mu   sync.Mutex
	path string
	key  func(T) string
}

func NewCollection[T any](dir, name string, key func(T) string) *Collection[T] {
	return &Collection[T]{
		path: filepath.Join(dir, name+".json"),
		key:  key,
	}
}

// lock takes the collection lock and returns its release func. The flock
// lives on a sidecar file rather than the collection file itself because
// save replaces the collection file by rename, which would orphan a lock
// held on the old inode.
func (c *Collection[T]) lock() (func(), error) {
	c.mu.Lock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("mkdir for %s: %w", c.path, err)
	}
	f, err := os.OpenFile(c.path+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("open lock for %s: %w", c.path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		f.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("lock %s: %w", c.path, err)
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
		c.mu.Unlock()
	}, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	unlock, err := c.lock()
	if err != nil {
		return zero, false, err
	}
	defer unlock()

	records, err := c.load()
	if err != nil {
		return zero, false, err
	}
	for _, rec := range records {
		if c.key(rec) == id {
			return rec, true, nil
		}
	}
	return zero, false, nil
}

func (c *Collection[T]) FindBy(ctx context.Context, pred func(T) bool) ([]T, error) {
	unlock, err := c.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := c.load()
	if err != nil {
		return nil, err
	}
	var out []T
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	unlock, err := c.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return c.load()
}

func (c *Collection[T]) Upsert(ctx context.Context, rec T) error {
	unlock, err := c.lock()
	if err != nil {
		return err
	}
	defer unlock()

	records, err := c.load()
	if err != nil {
		return err
	}
	id := c.key(rec)
	replaced := false
	for i := range records {
		if c.key(records[i]) == id {
			records[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, rec)
	}
	return c.save(records)
}

func (c *Collection[T]) DeleteBy(ctx context.Context, pred func(T) bool) (int, error) {
	unlock, err := c.lock()
	if err != nil {
		return 0, err
	}
	defer unlock()

	records, err := c.load()
	if err != nil {
		return 0, err
	}
	remaining := records[:0]
	removed := 0
	for _, rec := range records {
		if pred(rec) {
			removed++
			continue
		}
		remaining = append(remaining, rec)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, c.save(remaining)
}

func (c *Collection[T]) Update(ctx context.Context, id string, fn func(*T) error) error {
	unlock, err := c.lock()
	if err != nil {
		return err
	}
	defer unlock()

	records, err := c.load()
	if err != nil {
		return err
	}
	for i := range records {
		if c.key(records[i]) != id {
			continue
		}
		if err := fn(&records[i]); err != nil {
			return err
		}
		return c.save(records)
	}
	return storage.ErrNotFound
}

// load reads the whole collection. Callers must hold the collection lock.
func (c *Collection[T]) load() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		// A corrupt backing file reads as empty rather than failing the
		// request; the next save rewrites it whole.
		return nil, nil
	}
	return records, nil
}

// save writes the whole collection through a temp file and rename, so a
// crashed writer never leaves a half-written collection behind. Callers must
// hold the collection lock.
func (c *Collection[T]) save(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", c.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", c.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", c.path, err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", c.path, err)
	}
	return nil
}
