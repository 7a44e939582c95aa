package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hmiyata/story-atlas/internal/generator"
	"github.com/hmiyata/story-atlas/internal/storage"
)

// WorldMapHandler serves a project's geography: GET loads the stored system,
// POST generates a fresh one from the setting in the request body.
type WorldMapHandler struct {
	generator *generator.MapGenerator
	storage   storage.Storage
	logger    *slog.Logger
}

func NewWorldMapHandler(gen *generator.MapGenerator, storage storage.Storage, logger *slog.Logger) *WorldMapHandler {
	return &WorldMapHandler{
		generator: gen,
		storage:   storage,
		logger:    logger,
	}
}

type generateRequest struct {
	Project string            `json:"project"`
	Setting generator.Setting `json:"setting"`
}

func (h *WorldMapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handleGenerate(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *WorldMapHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	project := r.URL.Query().Get("project")
	if project == "" {
		http.Error(w, "project query parameter is required", http.StatusBadRequest)
		return
	}

	system, err := h.storage.LoadWorldMapSystem(r.Context(), project)
	if err != nil {
		h.logger.Error("Failed to load world map system", "project", project, "error", err)
		http.Error(w, "Failed to load world map", http.StatusInternalServerError)
		return
	}
	if system == nil {
		http.Error(w, "No world map generated for this project", http.StatusNotFound)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, system)
}

func (h *WorldMapHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Project == "" {
		http.Error(w, "project is required", http.StatusBadRequest)
		return
	}

	system := h.generator.GenerateSystem(r.Context(), req.Setting)

	if err := h.storage.SaveWorldMapSystem(r.Context(), req.Project, system); err != nil {
		h.logger.Error("Failed to save world map system", "project", req.Project, "error", err)
		http.Error(w, "Failed to save world map", http.StatusInternalServerError)
		return
	}

	h.logger.Info("World map system generated",
		"project", req.Project,
		"world_locations", len(system.WorldMap.Locations),
		"regions", len(system.Regions),
		"connections", len(system.Connections))

	writeJSON(w, h.logger, http.StatusCreated, system)
}

// writeJSON marshals v and writes it with the given status.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Error("Failed to marshal response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write response", "error", err)
	}
}
