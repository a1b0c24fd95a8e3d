package state

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/idgen"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// storedDashboard distinguishes an explicit false from a missing field.
type storedDashboard struct {
	IsSplitMode *bool `json:"isSplitMode"`
}

// Dashboard is the split-mode flag plus the derived Flow URL.
type Dashboard struct {
	deps
	mu       sync.RWMutex
	state    model.DashboardState
	flowBase string
	tokens   *idgen.Sequence
}

// NewDashboard returns a dashboard in split mode. Call Load to read persisted
// state.
func NewDashboard(a *store.Adapter, opts Options) *Dashboard {
	d := newDeps(a, opts)
	base := opts.FlowBaseURL
	if base == "" {
		base = DefaultFlowBaseURL
	}
	return &Dashboard{
		deps:     d,
		state:    model.DashboardState{IsSplitMode: true},
		flowBase: strings.TrimRight(base, "/"),
		tokens:   idgen.NewSequenceWithClock(d.now),
	}
}

// Load reads the persisted flag. Split mode stays on unless it was explicitly
// turned off.
func (d *Dashboard) Load(ctx context.Context) model.DashboardState {
	var stored storedDashboard
	st := model.DashboardState{IsSplitMode: true}
	if d.store.Load(ctx, model.KeyDashboardState, &stored) && stored.IsSplitMode != nil {
		st.IsSplitMode = *stored.IsSplitMode
	}
	d.mu.Lock()
	d.state = st
	d.mu.Unlock()
	return st
}

// IsSplitMode reports the current flag.
func (d *Dashboard) IsSplitMode() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.IsSplitMode
}

// Toggle flips split mode, persists it, and returns the new value.
func (d *Dashboard) Toggle(ctx context.Context) (bool, error) {
	d.mu.Lock()
	d.state.IsSplitMode = !d.state.IsSplitMode
	on := d.state.IsSplitMode
	saveErr := d.store.Save(ctx, model.KeyDashboardState, d.state)
	d.mu.Unlock()

	d.publish(ctx, events.TopicDashboardToggled, events.DashboardToggled{IsSplitMode: on})
	return on, saveErr
}

// ExternalURL is the Flow project address without a freshness token, for
// opening in a separate tab.
func (d *Dashboard) ExternalURL(cfg model.AppConfig) (string, bool) {
	if cfg.GeminiFlowID == "" {
		return "", false
	}
	return d.flowBase + "/" + url.PathEscape(cfg.GeminiFlowID), true
}

// FlowURL returns the embed address with a fresh token. It returns false when
// no flow id is configured; the caller shows a placeholder instead.
func (d *Dashboard) FlowURL(cfg model.AppConfig) (string, bool) {
	base, ok := d.ExternalURL(cfg)
	if !ok {
		return "", false
	}
	return base + "?v=" + strconv.FormatInt(d.tokens.Next(), 10), true
}

// Embed describes what the hosted view should show. With forceRecreate the
// caller must discard the embed and build a new one.
func (d *Dashboard) Embed(cfg model.AppConfig, forceRecreate bool) (model.Embed, bool) {
	u, ok := d.FlowURL(cfg)
	if !ok {
		return model.Embed{}, false
	}
	return model.Embed{URL: u, Recreate: forceRecreate}, true
}

// ForceResync is Embed with forceRecreate set. Some embeds only pick up a new
// login session when recreated.
func (d *Dashboard) ForceResync(ctx context.Context, cfg model.AppConfig) (model.Embed, bool) {
	e, ok := d.Embed(cfg, true)
	if ok {
		d.publish(ctx, events.TopicDashboardResynced, events.DashboardResynced{URL: e.URL})
	}
	return e, ok
}
