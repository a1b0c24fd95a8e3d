// Package state holds the studio's in-memory state, one slice per record, and
// mirrors every mutation to the durable store.
//
// Each slice guards its value with its own mutex and persists while holding
// it, so there is a single writer per durable key. Persistence failures never
// roll back the in-memory change: the mutating call returns the new value
// together with a *model.StoreError.
package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/reelcast/internal/events"
	"github.com/alfredjeanlab/reelcast/internal/store"
)

// DefaultFlowBaseURL is where Flow projects are hosted.
const DefaultFlowBaseURL = "https://labs.google/fx/tools/flow/project"

// Options configures a Studio. Zero values fall back to defaults.
type Options struct {
	Publisher   events.Publisher
	Logger      *slog.Logger
	Generator   ScriptGenerator
	FlowBaseURL string
	Now         func() time.Time
}

// deps is what every slice shares.
type deps struct {
	store  *store.Adapter
	pub    events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

func newDeps(a *store.Adapter, opts Options) deps {
	d := deps{store: a, pub: opts.Publisher, logger: opts.Logger, now: opts.Now}
	if d.pub == nil {
		d.pub = &events.NoopPublisher{}
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// publish emits an event. It is best-effort; failures are logged but do not
// reach the caller.
func (d deps) publish(ctx context.Context, topic string, event any) {
	if err := d.pub.Publish(ctx, topic, event); err != nil {
		d.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}
