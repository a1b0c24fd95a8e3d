package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// Adapter loads and saves typed records through a Backend.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
}

// NewAdapter wraps b. A nil logger falls back to slog.Default().
func NewAdapter(b Backend, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{backend: b, logger: logger}
}

// Backend returns the wrapped backend.
func (a *Adapter) Backend() Backend { return a.backend }

// Load decodes the record stored under key into v. It returns false when the
// key is absent, unreadable, or holds malformed data; callers fall back to
// defaults. v may be partially written when the data is malformed.
func (a *Adapter) Load(ctx context.Context, key string, v any) bool {
	data, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.logger.Warn("failed to load from storage", "key", key, "error", err)
		return false
	}
	if !ok || len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		a.logger.Warn("discarding malformed stored record", "key", key, "error", err)
		return false
	}
	return true
}

// Save encodes v and writes it under key. Failures come back as
// *model.StoreError and are logged; they never undo the caller's in-memory
// change.
func (a *Adapter) Save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return a.fail(key, fmt.Errorf("marshal: %w", err))
	}
	if err := a.backend.Put(ctx, key, data); err != nil {
		return a.fail(key, err)
	}
	return nil
}

func (a *Adapter) fail(key string, err error) error {
	a.logger.Warn("failed to save to storage", "key", key, "error", err)
	return &model.StoreError{Key: key, Err: err}
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}
