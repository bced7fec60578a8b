package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mtomcal/videotitan-server/internal/docstore"
	"github.com/mtomcal/videotitan-server/internal/importer"
	"github.com/mtomcal/videotitan-server/internal/models"
	"github.com/mtomcal/videotitan-server/internal/shared"
)

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// Routes returns the path patterns this handler serves.
func (h *HealthHandler) Routes() []string { return []string{"/health"} }

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UserHandler serves the per-user API: triggering imports, managing source
// configuration, and pass-through reads of the published data.
//
// Paths have the shape /api/users/{username}/{resource}.
type UserHandler struct {
	engine  *importer.Engine
	sources *importer.SourceService
	store   docstore.Store
	logger  *log.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(engine *importer.Engine, sources *importer.SourceService, store docstore.Store, logger *log.Logger) *UserHandler {
	return &UserHandler{engine: engine, sources: sources, store: store, logger: logger}
}

// Routes returns the path patterns this handler serves.
func (h *UserHandler) Routes() []string { return []string{"/api/users/"} }

func (h *UserHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rest := strings.TrimPrefix(req.URL.Path, "/api/users/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	username, resource := parts[0], parts[1]

	switch resource {
	case "import":
		h.runImport(w, req, username)
	case "sources":
		h.handleSources(w, req, username)
	case "playlists":
		h.readPlaylists(w, req, username)
	case "videos":
		h.readVideos(w, req, username)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// runImport triggers a full import run for the user's configured sources.
func (h *UserHandler) runImport(w http.ResponseWriter, req *http.Request, username string) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cfg, err := h.sources.Get(req.Context(), username)
	if err != nil {
		h.logger.Error("failed to load sources", "user", username, "error", err)
		writeError(w, errStatus(err), err.Error())
		return
	}
	if cfg.Empty() {
		writeError(w, http.StatusBadRequest, "no sources configured")
		return
	}

	result, err := h.engine.Run(req.Context(), username, cfg.Sources(), nil)
	if err != nil {
		h.logger.Error("import failed", "user", username, "error", err)
		writeError(w, errStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSources gets or replaces the user's source configuration.
func (h *UserHandler) handleSources(w http.ResponseWriter, req *http.Request, username string) {
	switch req.Method {
	case http.MethodGet:
		cfg, err := h.sources.Get(req.Context(), username)
		if err != nil {
			writeError(w, errStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	case http.MethodPut:
		var cfg models.SourceConfig
		if err := json.NewDecoder(req.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid source config: "+err.Error())
			return
		}
		if err := h.sources.Set(req.Context(), username, cfg); err != nil {
			writeError(w, errStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// readPlaylists returns the user's published playlists, key-sorted.
func (h *UserHandler) readPlaylists(w http.ResponseWriter, req *http.Request, username string) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var records map[string]models.PlaylistRef
	if err := h.store.Read(req.Context(), importer.PublishedPlaylistsPath(username), &records); err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	playlists := make([]models.PlaylistRef, 0, len(records))
	for _, key := range sortedKeys(records) {
		playlists = append(playlists, records[key])
	}
	writeJSON(w, http.StatusOK, playlists)
}

// readVideos returns the user's published videos, key-sorted, optionally
// filtered to one playlist via ?playlist=.
func (h *UserHandler) readVideos(w http.ResponseWriter, req *http.Request, username string) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	playlistID := req.URL.Query().Get("playlist")

	var records map[string]models.Video
	if err := h.store.Read(req.Context(), importer.PublishedVideosPath(username), &records); err != nil {
		writeError(w, errStatus(err), err.Error())
		return
	}

	videos := make([]models.Video, 0, len(records))
	for _, key := range sortedKeys(records) {
		v := records[key]
		if playlistID != "" && v.PlaylistID != playlistID {
			continue
		}
		videos = append(videos, v)
	}
	writeJSON(w, http.StatusOK, videos)
}

func sortedKeys[T any](records map[string]T) []string {
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// errStatus maps the service error taxonomy onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, shared.ErrOwnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrOwnerAmbiguous):
		return http.StatusConflict
	case errors.Is(err, shared.ErrUpstream), errors.Is(err, shared.ErrProtocol):
		return http.StatusBadGateway
	case errors.Is(err, shared.ErrInvalidInput), errors.Is(err, shared.ErrMissingArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
