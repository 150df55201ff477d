// ABOUTME: HTTP JSON boundary exposing shelter operations to the UI shell
// ABOUTME: Internal error types collapse to display strings at this layer

// Package api is the command-dispatch surface of shelterd. Every handler
// returns either a JSON success value or an error body with a
// human-readable message; internal error types never cross this boundary.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pawbase/shelterd/internal/app"
	"github.com/pawbase/shelterd/internal/files"
	"github.com/pawbase/shelterd/internal/store"
)

// Server handles HTTP requests for the shelter backend.
type Server struct {
	app    *app.App
	logger *slog.Logger
}

// NewServer creates an API server over the application context.
func NewServer(a *app.App, logger *slog.Logger) *Server {
	return &Server{
		app:    a,
		logger: logger.With("component", "api"),
	}
}

// Routes returns the HTTP handler with all endpoints registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /api/animals", s.handleListAnimals)
	mux.HandleFunc("POST /api/animals/query", s.handleQueryAnimals)
	mux.HandleFunc("GET /api/animals/{id}", s.handleGetAnimal)
	mux.HandleFunc("POST /api/animals", s.handleCreateAnimal)
	mux.HandleFunc("PUT /api/animals/{id}", s.handleUpdateAnimal)
	mux.HandleFunc("DELETE /api/animals/{id}", s.handleDeleteAnimal)
	mux.HandleFunc("GET /api/animals/{id}/requests", s.handleListRequestsByAnimal)

	mux.HandleFunc("GET /api/requests", s.handleListRequests)
	mux.HandleFunc("GET /api/requests/{id}", s.handleGetRequest)
	mux.HandleFunc("POST /api/requests", s.handleCreateRequest)
	mux.HandleFunc("PUT /api/requests/{id}", s.handleUpdateRequest)
	mux.HandleFunc("DELETE /api/requests/{id}", s.handleDeleteRequest)
	mux.HandleFunc("GET /api/users/{username}/requests", s.handleListRequestsByUsername)

	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/login", s.handleLogIn)
	mux.HandleFunc("GET /api/auth/me", s.handleCurrentUser)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogOut)

	mux.HandleFunc("POST /api/files", s.handleStoreFile)
	mux.HandleFunc("POST /api/files/delete", s.handleDeleteFile)

	mux.HandleFunc("GET /api/activity", s.handleListActivity)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	entries, err := s.app.Store.ListActivity(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	out := make([]activityJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, activityJSON{
			ID:         e.ID,
			Actor:      e.Actor,
			Action:     string(e.Action),
			TargetType: e.TargetType,
			TargetID:   e.TargetID,
			Timestamp:  e.Timestamp.Unix(),
			Detail:     e.Detail,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type activityJSON struct {
	ID         string         `json:"id"`
	Actor      string         `json:"actor,omitempty"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   string         `json:"target_id"`
	Timestamp  int64          `json:"timestamp"`
	Detail     map[string]any `json:"detail,omitempty"`
}

// errorResponse is the JSON error body every failed operation returns.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps the internal error taxonomy onto HTTP statuses and
// collapses the error to its display string.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrInvalidInput), errors.Is(err, files.ErrOutsideRoot):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, store.ErrInvariant):
		s.logger.Error("invariant violation", "error", err)
	default:
		s.logger.Error("operation failed", "error", err)
	}
	writeError(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
