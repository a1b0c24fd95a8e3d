package server

import (
	"net/http"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

// dashboardResponse describes the dashboard view. FlowURL and ExternalURL are
// empty when no flow id is configured; the client shows a placeholder.
type dashboardResponse struct {
	IsSplitMode bool   `json:"isSplitMode"`
	FlowURL     string `json:"flowUrl,omitempty"`
	ExternalURL string `json:"externalUrl,omitempty"`
	Configured  bool   `json:"configured"`
	Warning     string `json:"warning,omitempty"`
}

func (s *StudioServer) dashboardView(cfg model.AppConfig) dashboardResponse {
	resp := dashboardResponse{
		IsSplitMode: s.studio.Dashboard.IsSplitMode(),
		Configured:  cfg.Configured(),
	}
	resp.FlowURL, _ = s.studio.Dashboard.FlowURL(cfg)
	resp.ExternalURL, _ = s.studio.Dashboard.ExternalURL(cfg)
	return resp
}

// handleGetDashboard handles GET /v1/dashboard. Every call hands out a fresh
// flow URL.
func (s *StudioServer) handleGetDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboardView(s.studio.Config.Current()))
}

// handleToggleDashboard handles POST /v1/dashboard/toggle.
func (s *StudioServer) handleToggleDashboard(w http.ResponseWriter, r *http.Request) {
	_, err := s.studio.Dashboard.Toggle(r.Context())
	warning, err := warningOf(err)
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}

	resp := s.dashboardView(s.studio.Config.Current())
	resp.Warning = warning
	writeJSON(w, http.StatusOK, resp)
}

// handleResyncDashboard handles POST /v1/dashboard/resync. The response asks
// the client to recreate the embed.
func (s *StudioServer) handleResyncDashboard(w http.ResponseWriter, r *http.Request) {
	embed, ok := s.studio.Dashboard.ForceResync(r.Context(), s.studio.Config.Current())
	if !ok {
		writeError(w, http.StatusConflict, "no flow project id configured")
		return
	}
	writeJSON(w, http.StatusOK, embed)
}
