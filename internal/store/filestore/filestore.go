// Package filestore implements store.Backend as one JSON file per key on an
// afero filesystem.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/alfredjeanlab/reelcast/internal/store"
)

const fileExt = ".json"

var validKey = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Store writes each key to <dir>/<key>.json. Writes go through a temp file
// and a rename so a crash never leaves a half-written record.
type Store struct {
	fs    afero.Fs
	dir   string
	quota int64

	mu sync.Mutex
}

// Compile-time check that Store implements store.Backend.
var _ store.Backend = (*Store)(nil)

// New creates dir on fs if needed. quota <= 0 disables the size limit.
func New(fs afero.Fs, dir string, quota int64) (*Store, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{fs: fs, dir: dir, quota: quota}, nil
}

// NewOS is New on the host filesystem.
func NewOS(dir string, quota int64) (*Store, error) {
	return New(afero.NewOsFs(), dir, quota)
}

func (s *Store) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// Get reads <key>.json. A missing file reports ok == false.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := afero.ReadFile(s.fs, p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes data atomically. When the quota would be exceeded it returns
// store.ErrQuotaExceeded and leaves the old file in place.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used, err := s.usedExcept(p)
		if err != nil {
			return err
		}
		if used+int64(len(data)) > s.quota {
			return store.ErrQuotaExceeded
		}
	}
	return s.writeAtomic(p, data)
}

func (s *Store) writeAtomic(path string, data []byte) error {
	f, err := afero.TempFile(s.fs, s.dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := f.Name()
	defer func() {
		_ = s.fs.Remove(tmpPath)
	}()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := s.fs.Chmod(tmpPath, 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := s.fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

func (s *Store) usedExcept(path string) (int64, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return 0, fmt.Errorf("read data dir: %w", err)
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		if filepath.Join(s.dir, e.Name()) == path {
			continue
		}
		total += e.Size()
	}
	return total, nil
}

// Delete removes the file for key, if any.
func (s *Store) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// Keys lists the valid keys found in the data directory, sorted. Temp files
// and foreign files are skipped.
func (s *Store) Keys(_ context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key := strings.TrimSuffix(name, fileExt)
		if validKey.MatchString(key) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Close is a no-op; every write is already durable.
func (s *Store) Close() error { return nil }
