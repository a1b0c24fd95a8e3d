package server

import (
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/reelcast/internal/model"
)

type scheduleResponse struct {
	Schedule model.ScheduleEntry `json:"schedule"`
	Warning  string              `json:"warning,omitempty"`
}

// handleListSchedules handles GET /v1/schedules[?where=expr].
func (s *StudioServer) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	where := r.URL.Query().Get("where")
	if where == "" {
		writeJSON(w, http.StatusOK, map[string]any{"schedules": nonNil(s.studio.Schedules.List())})
		return
	}

	entries, err := s.studio.Schedules.Filter(where)
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": nonNil(entries)})
}

// handleRenderSchedules handles GET /v1/schedules/view.
func (s *StudioServer) handleRenderSchedules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"schedules": nonNil(s.studio.Schedules.Render())})
}

// handleCreateSchedule handles POST /v1/schedules.
func (s *StudioServer) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var draft model.ScheduleDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	entry, err := s.studio.Schedules.Create(r.Context(), draft)
	warning, err := warningOf(err)
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, scheduleResponse{Schedule: entry, Warning: warning})
}

// handleDeleteSchedule handles DELETE /v1/schedules/{id}.
func (s *StudioServer) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid schedule id")
		return
	}

	warning, err := warningOf(s.studio.Schedules.Delete(r.Context(), id))
	if err != nil {
		s.writeStateError(w, r, err)
		return
	}
	if warning != "" {
		writeJSON(w, http.StatusOK, map[string]string{"warning": warning})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
