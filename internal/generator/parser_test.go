package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

const worldJSON = `{
  "locations": [
    {"name": "Ashen Capital", "type": "capital", "x": 50, "y": 50, "description": "Seat of the empire."},
    {"name": "Port Vael", "type": "major_city", "x": 80, "y": 60},
    {"name": "Port Vael", "type": "major_city", "x": 82, "y": 62},
    {"name": "", "type": "landmark", "x": 10, "y": 10},
    {"name": "Sky Spire", "x": 120, "y": -5}
  ],
  "geography": [
    {"type": "mountain", "name": "Graypeaks", "area": {"top_left": {"x": 30, "y": 0}, "bottom_right": {"x": 40, "y": 100}}},
    {"type": "", "name": "nameless type"},
    {"type": "river", "name": ""}
  ]
}`

func TestParseWorldMap(t *testing.T) {
	wm, err := ParseWorldMap(worldJSON)
	require.NoError(t, err)

	// The nameless entry is dropped; duplicates and the untyped one survive.
	require.Len(t, wm.Locations, 4)

	assert.Equal(t, "world-ashen-capital", wm.Locations[0].ID)
	assert.Equal(t, worldmap.TypeCapital, wm.Locations[0].Type)

	// Duplicate names get numeric suffixes.
	assert.Equal(t, "world-port-vael", wm.Locations[1].ID)
	assert.Equal(t, "world-port-vael-2", wm.Locations[2].ID)

	// Missing type falls back to landmark; coordinates clamp into the plane.
	spire := wm.Locations[3]
	assert.Equal(t, worldmap.TypeLandmark, spire.Type)
	assert.Equal(t, 100.0, spire.Coordinates.X)
	assert.Equal(t, 0.0, spire.Coordinates.Y)

	// Features without type or name are dropped.
	require.Len(t, wm.Geography, 1)
	assert.Equal(t, "Graypeaks", wm.Geography[0].Name)
}

func TestParseWorldMap_WrappedResponses(t *testing.T) {
	wrapped := []string{
		"Here is your map:\n" + worldJSON + "\nLet me know if you want changes.",
		"```json\n" + worldJSON + "\n```",
		"```\n" + worldJSON + "\n```",
	}
	for _, text := range wrapped {
		wm, err := ParseWorldMap(text)
		require.NoError(t, err, "input: %.40s", text)
		assert.Len(t, wm.Locations, 4)
	}
}

func TestParseWorldMap_Unusable(t *testing.T) {
	_, err := ParseWorldMap("I cannot design maps, sorry.")
	assert.Error(t, err)

	_, err = ParseWorldMap(`{"locations": []}`)
	assert.Error(t, err)

	_, err = ParseWorldMap(`{"locations": [{"name": "", "type": "capital"}]}`)
	assert.Error(t, err, "all entries nameless means no usable locations")
}

func TestParseRegionMap(t *testing.T) {
	text := `{
	  "locations": [
	    {"name": "翠の村", "x": 30, "y": 40},
	    {"name": "North Keep", "type": "town", "x": 60, "y": 20}
	  ],
	  "terrain": [
	    {"type": "forest", "name": "Elderwood", "area": {"top_left": {"x": 0, "y": 0}, "bottom_right": {"x": 50, "y": 50}}}
	  ]
	}`

	rm, err := ParseRegionMap(text, "world-ashen-capital")
	require.NoError(t, err)

	assert.Equal(t, "world-ashen-capital", rm.ParentLocationID)
	require.Len(t, rm.Locations, 2)

	// CJK names survive into the id, untyped settlements default to village.
	assert.Equal(t, "world-ashen-capital-翠の村", rm.Locations[0].ID)
	assert.Equal(t, worldmap.TypeVillage, rm.Locations[0].Type)
	assert.Equal(t, worldmap.TypeTown, rm.Locations[1].Type)

	require.Len(t, rm.Terrain, 1)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ashen Capital", "ashen-capital"},
		{"Port  Vael!", "port-vael"},
		{"翠の村", "翠の村"},
		{"St. Maria's Gate", "st-maria-s-gate"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify %q", tt.in)
	}
}
