package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/idgen"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// ScriptGenerator drafts a video script for a product from its photos. It
// makes exactly one outbound call and does not retry.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, apiKey string, product model.ProductDraft, images [][]byte) (string, error)
}

// ErrNoGenerator is returned by Generate when the studio has no generator.
var ErrNoGenerator = errors.New("no script generator configured")

// Studio groups every state slice of one running studio.
type Studio struct {
	Config    *ConfigStore
	Schedules *ScheduleStore
	Dashboard *Dashboard
	Products  *Inventory

	deps
	generator ScriptGenerator

	mu      sync.RWMutex
	current *model.GenerationResult
}

// New builds a studio over a. Call Load before serving requests.
func New(a *store.Adapter, opts Options) *Studio {
	return &Studio{
		Config:    NewConfigStore(a, opts),
		Schedules: NewScheduleStore(a, opts),
		Dashboard: NewDashboard(a, opts),
		Products:  NewInventory(a, opts),
		deps:      newDeps(a, opts),
		generator: opts.Generator,
	}
}

// Load reads every slice from the durable store.
func (s *Studio) Load(ctx context.Context) {
	cfg := s.Config.Load(ctx)
	entries := s.Schedules.Load(ctx)
	dash := s.Dashboard.Load(ctx)
	products := s.Products.Load(ctx)
	s.logger.Info("studio state loaded",
		"configured", cfg.Configured(),
		"schedules", len(entries),
		"products", len(products),
		"split_mode", dash.IsSplitMode)
}

// Generation is the outcome of Studio.Generate.
type Generation struct {
	Result model.GenerationResult `json:"result"`
	Embed  model.Embed            `json:"embed"`
}

// Generate drafts a script for product. It needs a complete config, the
// product name, description and price, and at least one image. Split mode is
// switched on and persisted before the call (or the embed refreshed when
// already on) and stays on if the call fails. A failed call sets no current
// result and returns the generator's error unchanged.
//
// A non-nil *model.StoreError may accompany a successful result when turning
// split mode on could not be persisted.
func (s *Studio) Generate(ctx context.Context, product model.ProductDraft, images [][]byte) (*Generation, error) {
	cfg := s.Config.Current()
	if err := model.ValidateAppConfig(cfg); err != nil {
		return nil, err
	}
	if err := model.ValidateProductDraft(product, true); err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, &model.ValidationError{Errors: []model.FieldError{{
			Field: "images", Message: "at least one image is required", Err: model.ErrMissingRequiredField,
		}}}
	}
	if s.generator == nil {
		return nil, ErrNoGenerator
	}

	var warn error
	if !s.Dashboard.IsSplitMode() {
		_, warn = s.Dashboard.Toggle(ctx)
	}
	embed, _ := s.Dashboard.Embed(cfg, false)

	content, err := s.generator.GenerateScript(ctx, cfg.APIKey, product, images)
	if err != nil {
		return nil, err
	}

	id, err := idgen.GenerateWithPrefix(idgen.GenerationPrefix)
	if err != nil {
		return nil, fmt.Errorf("generate result id: %w", err)
	}
	result := model.GenerationResult{
		ID:         id,
		Content:    content,
		Product:    product,
		ImageCount: len(images),
		CreatedAt:  s.now().UTC(),
	}

	s.mu.Lock()
	s.current = &result
	s.mu.Unlock()

	s.publish(ctx, events.TopicGenerationCompleted, events.GenerationCompleted{
		GenerationID: result.ID,
		ProductName:  product.Name,
		ImageCount:   result.ImageCount,
	})
	return &Generation{Result: result, Embed: embed}, warn
}

// Current returns the latest generation result, if any.
func (s *Studio) Current() (model.GenerationResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.GenerationResult{}, false
	}
	return *s.current, true
}
