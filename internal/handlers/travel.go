package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hmiyata/story-atlas/internal/storage"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// TravelHandler answers route and plausibility queries against a project's
// stored geography.
type TravelHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewTravelHandler(storage storage.Storage, logger *slog.Logger) *TravelHandler {
	return &TravelHandler{
		storage: storage,
		logger:  logger,
	}
}

type pathRequest struct {
	Project string `json:"project"`
	FromID  string `json:"from_id"`
	ToID    string `json:"to_id"`
	Method  string `json:"method"`
}

type validateRequest struct {
	Project       string `json:"project"`
	FromLocation  string `json:"from_location"`
	ToLocation    string `json:"to_location"`
	CharacterName string `json:"character_name"`
	Chapter       int    `json:"chapter"`
}

func (h *TravelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch {
	case strings.HasSuffix(r.URL.Path, "/path"):
		h.handlePath(w, r)
	case strings.HasSuffix(r.URL.Path, "/validate"):
		h.handleValidate(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *TravelHandler) handlePath(w http.ResponseWriter, r *http.Request) {
	var req pathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Project == "" || req.FromID == "" || req.ToID == "" {
		http.Error(w, "project, from_id and to_id are required", http.StatusBadRequest)
		return
	}

	system, err := h.storage.LoadWorldMapSystem(r.Context(), req.Project)
	if err != nil {
		h.logger.Error("Failed to load world map system", "project", req.Project, "error", err)
		http.Error(w, "Failed to load world map", http.StatusInternalServerError)
		return
	}
	if system == nil {
		http.Error(w, "No world map generated for this project", http.StatusNotFound)
		return
	}

	method := worldmap.TravelMethodType(req.Method)
	if method == "" {
		method = worldmap.MethodWalking
	}

	result := worldmap.NewPathfinder(system).FindPath(req.FromID, req.ToID, method)
	if result == nil {
		http.Error(w, "No known route between the given locations", http.StatusNotFound)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *TravelHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Project == "" {
		http.Error(w, "project is required", http.StatusBadRequest)
		return
	}

	// A missing or unreadable system is not an error here: validation
	// degrades to permissive results so narrative generation is never blocked
	// by geography bookkeeping.
	system, err := h.storage.LoadWorldMapSystem(r.Context(), req.Project)
	if err != nil {
		h.logger.Error("Failed to load world map system", "project", req.Project, "error", err)
		http.Error(w, "Failed to load world map", http.StatusInternalServerError)
		return
	}

	validator := worldmap.NewTravelValidator(system)
	result := validator.Validate(req.FromLocation, req.ToLocation, req.CharacterName, req.Chapter)

	writeJSON(w, h.logger, http.StatusOK, result)
}
