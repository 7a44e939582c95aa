package generator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmiyata/story-atlas/internal/services"
	"github.com/hmiyata/story-atlas/pkg/chat"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSetting() Setting {
	return Setting{
		Title:       "The Ashen Crown",
		Genre:       "fantasy",
		Era:         "medieval",
		Description: "A fractured empire rebuilding after a war of succession.",
	}
}

// scriptedLLM answers the world prompt once, then the region prompt for every
// later call.
func scriptedLLM(worldText, regionText string) *services.MockLLMService {
	mock := services.NewMockLLMService()
	calls := 0
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		calls++
		if calls == 1 {
			return worldText, nil
		}
		return regionText, nil
	}
	return mock
}

const generatorWorldJSON = `{
  "locations": [
    {"name": "Ashen Capital", "type": "capital", "x": 50, "y": 50},
    {"name": "Port Vael", "type": "major_city", "x": 75, "y": 55},
    {"name": "The Sunken Shrine", "type": "landmark", "x": 30, "y": 70}
  ],
  "geography": [
    {"type": "forest", "name": "Elderwood", "area": {"top_left": {"x": 55, "y": 40}, "bottom_right": {"x": 70, "y": 60}}}
  ]
}`

const generatorRegionJSON = `{
  "locations": [
    {"name": "Crown Market", "type": "town", "x": 50, "y": 50},
    {"name": "Millbrook", "type": "village", "x": 58, "y": 52},
    {"name": "Old Quarry", "type": "ruins", "x": 40, "y": 60}
  ]
}`

func TestGenerateSystem(t *testing.T) {
	mock := scriptedLLM(generatorWorldJSON, generatorRegionJSON)
	g := NewMapGenerator(mock, testLogger())

	system := g.GenerateSystem(context.Background(), testSetting())
	require.NotNil(t, system)
	require.NoError(t, system.Validate())

	assert.Len(t, system.WorldMap.Locations, 3)

	// One region per major world location: the capital and the major city,
	// but not the landmark.
	require.Len(t, system.Regions, 2)
	assert.Equal(t, "world-ashen-capital", system.Regions[0].ParentLocationID)
	assert.Equal(t, "world-port-vael", system.Regions[1].ParentLocationID)

	// One world call plus one call per region.
	assert.Len(t, mock.ChatCalls, 3)

	// Every scale must come out connected.
	assert.NotEmpty(t, system.Connections)
	assert.NotEmpty(t, system.TravelTimes)
	for _, loc := range system.WorldMap.Locations {
		_, found := findAnyConnection(system, loc.ID)
		assert.True(t, found, "world location %s has a connection", loc.ID)
	}
}

func findAnyConnection(system *worldmap.WorldMapSystem, locationID string) (*worldmap.MapConnection, bool) {
	for i := range system.Connections {
		c := &system.Connections[i]
		if c.FromLocationID == locationID || c.ToLocationID == locationID {
			return c, true
		}
	}
	return nil, false
}

func TestGenerateSystem_ProposerErrorFallsBack(t *testing.T) {
	mock := services.NewMockLLMService()
	mock.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "", fmt.Errorf("model unavailable")
	}
	g := NewMapGenerator(mock, testLogger())

	system := g.GenerateSystem(context.Background(), testSetting())
	require.NotNil(t, system)
	require.NoError(t, system.Validate())

	// The fallback world is a single capital; its fallback region has a
	// single town.
	require.Len(t, system.WorldMap.Locations, 1)
	assert.Equal(t, "world-capital", system.WorldMap.Locations[0].ID)
	require.Len(t, system.Regions, 1)
	assert.Equal(t, "world-capital-town", system.Regions[0].Locations[0].ID)
}

func TestGenerateSystem_UnparseableWorldFallsBack(t *testing.T) {
	mock := scriptedLLM("I would rather not.", generatorRegionJSON)
	g := NewMapGenerator(mock, testLogger())

	system := g.GenerateSystem(context.Background(), testSetting())
	require.Len(t, system.WorldMap.Locations, 1)
	assert.Equal(t, worldmap.TypeCapital, system.WorldMap.Locations[0].Type)
}

func TestWorldMapPrompt(t *testing.T) {
	messages := WorldMapPrompt(testSetting(), 8)
	require.Len(t, messages, 2)
	assert.Equal(t, chat.ChatRoleSystem, messages[0].Role)
	assert.Contains(t, messages[1].Content, "The Ashen Crown")
	assert.Contains(t, messages[1].Content, "8 world-scale locations")
}

func TestRegionMapPrompt(t *testing.T) {
	parent := worldmap.Location{
		ID:   "world-ashen-capital",
		Name: "Ashen Capital",
		Type: worldmap.TypeCapital,
	}
	messages := RegionMapPrompt(testSetting(), parent, 6)
	require.Len(t, messages, 2)
	assert.True(t, strings.Contains(messages[1].Content, "Ashen Capital"))
}
