package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alfredjeanlab/reelcast/internal/gemini"
	"github.com/alfredjeanlab/reelcast/internal/model"
	"github.com/alfredjeanlab/reelcast/internal/state"
)

// NewHTTPHandler returns an http.Handler that serves the studio's JSON API.
// When authToken is non-empty every route except GET /v1/health requires a
// matching Bearer token.
func NewHTTPHandler(s *StudioServer, authToken string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", s.handleHealth)

	mux.HandleFunc("GET /v1/config", s.handleGetConfig)
	mux.HandleFunc("PUT /v1/config", s.handleSubmitConfig)

	mux.HandleFunc("GET /v1/schedules", s.handleListSchedules)
	mux.HandleFunc("GET /v1/schedules/view", s.handleRenderSchedules)
	mux.HandleFunc("POST /v1/schedules", s.handleCreateSchedule)
	mux.HandleFunc("DELETE /v1/schedules/{id}", s.handleDeleteSchedule)

	mux.HandleFunc("GET /v1/dashboard", s.handleGetDashboard)
	mux.HandleFunc("POST /v1/dashboard/toggle", s.handleToggleDashboard)
	mux.HandleFunc("POST /v1/dashboard/resync", s.handleResyncDashboard)

	mux.HandleFunc("GET /v1/products", s.handleListProducts)
	mux.HandleFunc("POST /v1/products", s.handleAddProduct)
	mux.HandleFunc("DELETE /v1/products/{id}", s.handleRemoveProduct)

	mux.HandleFunc("POST /v1/generate", s.handleGenerate)
	mux.HandleFunc("GET /v1/generate/current", s.handleCurrentGeneration)
	mux.HandleFunc("GET /v1/generate/current/script", s.handleExportScript)

	mux.HandleFunc("POST /v1/backup", s.handleBackup)

	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)

	var h http.Handler = mux
	h = AuthMiddleware(authToken, h)
	h = LoggingMiddleware(s.logger, h)
	h = RecoveryMiddleware(s.logger, h)
	return RequestIDMiddleware(h)
}

// handleHealth handles GET /v1/health.
func (s *StudioServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleBackup handles POST /v1/backup.
func (s *StudioServer) handleBackup(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		writeError(w, http.StatusServiceUnavailable, "backup is not configured")
		return
	}
	if err := s.syncer.SyncNow(r.Context()); err != nil {
		s.logger.Error("backup failed", "error", err, "request_id", requestID(r.Context()))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// warningOf splits a non-fatal persistence failure from a real error. It
// returns the user-facing warning, or err unchanged when err is anything else.
func warningOf(err error) (string, error) {
	var se *model.StoreError
	if errors.As(err, &se) {
		return se.Warning(), nil
	}
	return "", err
}

// writeStateError maps errors from the state layer to HTTP statuses.
func (s *StudioServer) writeStateError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve  *model.ValidationError
		nf  *model.NotFoundError
		api *gemini.APIError
		te  *gemini.TransportError
	)
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Error())
	case errors.As(err, &api):
		writeError(w, http.StatusBadGateway, api.Message)
	case errors.As(err, &te):
		writeError(w, http.StatusBadGateway, te.Message)
	case errors.Is(err, state.ErrNoGenerator):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", requestID(r.Context()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response: {"error": "message"}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
