package state

import (
	"context"
	"sync"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// ConfigStore holds the studio credentials.
type ConfigStore struct {
	deps
	mu  sync.RWMutex
	cfg model.AppConfig
}

// NewConfigStore returns an empty store. Call Load to read persisted state.
func NewConfigStore(a *store.Adapter, opts Options) *ConfigStore {
	return &ConfigStore{deps: newDeps(a, opts)}
}

// Load re-reads the config from the durable store. When nothing usable is
// stored the config is reset to all-empty defaults.
func (s *ConfigStore) Load(ctx context.Context) model.AppConfig {
	var cfg model.AppConfig
	if !s.store.Load(ctx, model.KeyAppConfig, &cfg) {
		cfg = model.AppConfig{}
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cfg
}

// Current returns the in-memory config.
func (s *ConfigStore) Current() model.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Submit replaces the whole config with draft. A draft missing geminiFlowId
// or apiKey is rejected with a *model.ValidationError and nothing changes.
func (s *ConfigStore) Submit(ctx context.Context, draft model.AppConfig) (model.AppConfig, error) {
	if err := model.ValidateAppConfig(draft); err != nil {
		return model.AppConfig{}, err
	}

	s.mu.Lock()
	s.cfg = draft
	saveErr := s.store.Save(ctx, model.KeyAppConfig, draft)
	s.mu.Unlock()

	s.publish(ctx, events.TopicConfigSaved, events.ConfigSaved{Config: draft.Masked()})
	return draft, saveErr
}
