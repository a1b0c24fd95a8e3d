package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/reelcast/internal/state"
)

// Syncer runs an on-demand backup. *sync.Scheduler satisfies it.
type Syncer interface {
	SyncNow(ctx context.Context) error
}

// Options configures a StudioServer.
type Options struct {
	// Hub receives every event the studio publishes and feeds the SSE
	// stream. It must be the same hub that is wired into the studio's
	// publisher; when nil a private hub is created and the stream stays
	// silent.
	Hub    *EventHub
	Syncer Syncer
	Logger *slog.Logger
}

// StudioServer exposes a loaded *state.Studio over HTTP.
type StudioServer struct {
	studio *state.Studio
	hub    *EventHub
	syncer Syncer
	logger *slog.Logger
}

// NewStudioServer returns a server for studio. The studio must already be
// loaded.
func NewStudioServer(studio *state.Studio, opts Options) *StudioServer {
	s := &StudioServer{
		studio: studio,
		hub:    opts.Hub,
		syncer: opts.Syncer,
		logger: opts.Logger,
	}
	if s.hub == nil {
		s.hub = NewEventHub()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}
