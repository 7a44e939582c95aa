package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hmiyata/story-atlas/internal/storage"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// CharacterHandler reads and updates per-character location records. Updates
// are copy-on-write over the project's tracker blob: load, mutate, save.
type CharacterHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCharacterHandler(storage storage.Storage, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{
		storage: storage,
		logger:  logger,
	}
}

type moveRequest struct {
	Project     string `json:"project"`
	CharacterID string `json:"character_id"`
	MapLevel    string `json:"map_level"`
	LocationID  string `json:"location_id"`
	Chapter     int    `json:"chapter"`
}

func (h *CharacterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPut:
		h.handleUpdate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CharacterHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	characterID := r.URL.Query().Get("character")
	if project == "" || characterID == "" {
		http.Error(w, "project and character query parameters are required", http.StatusBadRequest)
		return
	}

	tracker, err := h.storage.LoadCharacterTracker(r.Context(), project)
	if err != nil {
		h.logger.Error("Failed to load character tracker", "project", project, "error", err)
		http.Error(w, "Failed to load character locations", http.StatusInternalServerError)
		return
	}

	record := tracker.Get(characterID)
	if record == nil {
		http.Error(w, "Character has no recorded location", http.StatusNotFound)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, record)
}

func (h *CharacterHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Project == "" || req.CharacterID == "" || req.LocationID == "" {
		http.Error(w, "project, character_id and location_id are required", http.StatusBadRequest)
		return
	}

	level := worldmap.MapLevel(req.MapLevel)
	if level == "" {
		level = worldmap.LevelWorld
	}

	// The location must exist before a move is recorded against it.
	system, err := h.storage.LoadWorldMapSystem(r.Context(), req.Project)
	if err != nil {
		h.logger.Error("Failed to load world map system", "project", req.Project, "error", err)
		http.Error(w, "Failed to load world map", http.StatusInternalServerError)
		return
	}
	if system != nil && system.Location(level, req.LocationID) == nil {
		http.Error(w, "Unknown location id for the given map level", http.StatusBadRequest)
		return
	}

	tracker, err := h.storage.LoadCharacterTracker(r.Context(), req.Project)
	if err != nil {
		h.logger.Error("Failed to load character tracker", "project", req.Project, "error", err)
		http.Error(w, "Failed to load character locations", http.StatusInternalServerError)
		return
	}

	record, err := tracker.Update(req.CharacterID, level, req.LocationID, req.Chapter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.storage.SaveCharacterTracker(r.Context(), req.Project, tracker); err != nil {
		h.logger.Error("Failed to save character tracker", "project", req.Project, "error", err)
		http.Error(w, "Failed to save character locations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, record)
}
