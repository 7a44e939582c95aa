package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmiyata/story-atlas/internal/storage"
	"github.com/hmiyata/story-atlas/pkg/character"
)

func characterFixture(t *testing.T) (*CharacterHandler, *storage.MockStorage) {
	t.Helper()
	store := storage.NewMockStorage()
	require.NoError(t, store.SaveWorldMapSystem(context.Background(), "proj-1", fixtureSystem()))
	return NewCharacterHandler(store, testLogger()), store
}

func moveBody(locationID string, chapter int) string {
	return fmt.Sprintf(`{"project": "proj-1", "character_id": "akira", "map_level": "world", "location_id": "%s", "chapter": %d}`, locationID, chapter)
}

func TestCharacterHandler_MoveAndGet(t *testing.T) {
	h, _ := characterFixture(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/characters/location", strings.NewReader(moveBody("oukoto", 1)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/v1/characters/location", strings.NewReader(moveBody("ironhold", 4)))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/characters/location?project=proj-1&character=akira", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var record character.CharacterLocation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, "ironhold", record.CurrentLocation.LocationID)
	require.Len(t, record.LocationHistory, 2)
	require.NotNil(t, record.LocationHistory[0].DepartureChapter)
	assert.Equal(t, 4, *record.LocationHistory[0].DepartureChapter)
}

func TestCharacterHandler_GetUnknownCharacter(t *testing.T) {
	h, _ := characterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/characters/location?project=proj-1&character=nobody", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCharacterHandler_GetRequiresParams(t *testing.T) {
	h, _ := characterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/characters/location?project=proj-1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharacterHandler_MoveRejectsUnknownLocation(t *testing.T) {
	h, _ := characterFixture(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/characters/location", strings.NewReader(moveBody("atlantis", 1)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharacterHandler_MoveRejectsChapterRegression(t *testing.T) {
	h, _ := characterFixture(t)

	req := httptest.NewRequest(http.MethodPut, "/v1/characters/location", strings.NewReader(moveBody("oukoto", 5)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/v1/characters/location", strings.NewReader(moveBody("ironhold", 2)))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCharacterHandler_MoveWithoutSystemIsAllowed(t *testing.T) {
	// No geography configured yet: moves are recorded without location
	// verification so tracking can start before map generation.
	store := storage.NewMockStorage()
	h := NewCharacterHandler(store, testLogger())

	req := httptest.NewRequest(http.MethodPut, "/v1/characters/location", strings.NewReader(moveBody("anywhere", 1)))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCharacterHandler_MethodNotAllowed(t *testing.T) {
	h, _ := characterFixture(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/characters/location", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
