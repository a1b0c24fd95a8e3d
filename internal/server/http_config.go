package server

import (
	"net/http"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// nextViewAfterConfig is the view a client should move to once the config is
// accepted.
const nextViewAfterConfig = "creator"

type configResponse struct {
	Config     model.AppConfig `json:"config"`
	Configured bool            `json:"configured"`
	Next       string          `json:"next,omitempty"`
	Warning    string          `json:"warning,omitempty"`
}

// handleGetConfig handles GET /v1/config. Secrets are masked.
func (s *StudioServer) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	cfg := s.studio.Config.Current()
	writeJSON(w, http.StatusOK, configResponse{
		Config:     cfg.Masked(),
		Configured: cfg.Configured(),
	})
}

// handleSubmitConfig handles PUT /v1/config. The body replaces the stored
// config wholesale.
func (s *StudioServer) handleSubmitConfig(w http.ResponseWriter, r *http.Request) {
	var draft model.AppConfig
	if !decodeJSON(w, r, &draft) {
		return
	}

	cfg, err := s.studio.Config.Submit(r.Context(), draft)
	warning, err := warningOf(err)
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		Config:     cfg.Masked(),
		Configured: true,
		Next:       nextViewAfterConfig,
		Warning:    warning,
	})
}
