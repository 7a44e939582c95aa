package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmiyata/story-atlas/internal/generator"
	"github.com/hmiyata/story-atlas/internal/services"
	"github.com/hmiyata/story-atlas/internal/storage"
	"github.com/hmiyata/story-atlas/pkg/chat"
	"github.com/hmiyata/story-atlas/pkg/geo"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixtureSystem is a two-city world with a road and a stored walking time.
func fixtureSystem() *worldmap.WorldMapSystem {
	return &worldmap.WorldMapSystem{
		WorldMap: worldmap.WorldMap{Locations: []worldmap.Location{
			{ID: "oukoto", Name: "王都", Type: worldmap.TypeCapital, Coordinates: geo.Coordinates{X: 50, Y: 50}},
			{ID: "ironhold", Name: "Ironhold", Type: worldmap.TypeMajorCity, Coordinates: geo.Coordinates{X: 75, Y: 50}},
		}},
		Connections: []worldmap.MapConnection{{
			ID:             "oukoto-ironhold",
			FromLocationID: "oukoto",
			ToLocationID:   "ironhold",
			Bidirectional:  true,
			ConnectionType: worldmap.ConnRoad,
			Difficulty:     worldmap.DifficultyEasy,
		}},
		TravelTimes: []worldmap.TravelTime{{
			ConnectionID: "oukoto-ironhold",
			TravelMethod: worldmap.TravelMethod{Type: worldmap.MethodWalking, SpeedKmh: 5, Availability: "common"},
			BaseTime:     3000,
		}},
	}
}

func testGenerator() *generator.MapGenerator {
	mock := services.NewMockLLMService()
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return `{"locations": [
			{"name": "Ashen Capital", "type": "capital", "x": 50, "y": 50},
			{"name": "Port Vael", "type": "major_city", "x": 70, "y": 55}
		]}`, nil
	}
	return generator.NewMapGenerator(mock, testLogger())
}

func TestWorldMapHandler_GetRequiresProject(t *testing.T) {
	h := NewWorldMapHandler(testGenerator(), storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/worldmap", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorldMapHandler_GetMissingProject(t *testing.T) {
	h := NewWorldMapHandler(testGenerator(), storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/worldmap?project=nope", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorldMapHandler_GetStoredSystem(t *testing.T) {
	store := storage.NewMockStorage()
	require.NoError(t, store.SaveWorldMapSystem(context.Background(), "proj-1", fixtureSystem()))
	h := NewWorldMapHandler(testGenerator(), store, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/v1/worldmap?project=proj-1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var system worldmap.WorldMapSystem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &system))
	assert.Len(t, system.WorldMap.Locations, 2)
}

func TestWorldMapHandler_GenerateAndPersist(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewWorldMapHandler(testGenerator(), store, testLogger())

	body := `{"project": "proj-1", "setting": {"title": "The Ashen Crown", "genre": "fantasy", "era": "medieval"}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/worldmap", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var system worldmap.WorldMapSystem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &system))
	assert.Len(t, system.WorldMap.Locations, 2)
	assert.NotEmpty(t, system.Connections)

	stored, err := store.LoadWorldMapSystem(context.Background(), "proj-1")
	require.NoError(t, err)
	require.NotNil(t, stored, "the generated system must be persisted")
	assert.Len(t, stored.WorldMap.Locations, 2)
}

func TestWorldMapHandler_GenerateRequiresProject(t *testing.T) {
	h := NewWorldMapHandler(testGenerator(), storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/worldmap", strings.NewReader(`{"setting": {"title": "x"}}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorldMapHandler_MethodNotAllowed(t *testing.T) {
	h := NewWorldMapHandler(testGenerator(), storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodDelete, "/v1/worldmap", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
