package generator

import (
	"fmt"

	"github.com/hmiyata/story-atlas/pkg/chat"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// Setting describes the story world the proposer should draw from.
type Setting struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Era         string `json:"era"`
	Description string `json:"description"`
}

const worldMapSystemPrompt = `You are a fantasy cartographer. You design coherent fictional geography for novels.

Respond with ONLY a JSON object, no prose, matching this schema:
{
  "locations": [
    {
      "name": "string",
      "type": "capital" | "major_city" | "landmark" | "region",
      "x": number (0-100),
      "y": number (0-100),
      "description": "string",
      "population": number (optional),
      "climate": "string" (optional),
      "cultural_affiliation": "string" (optional),
      "importance": "string" (optional)
    }
  ],
  "geography": [
    {
      "type": "mountain" | "river" | "forest" | "desert" | "ocean" | "plain" | "hill" | "valley" | "lake",
      "name": "string",
      "description": "string",
      "area": {"top_left": {"x": n, "y": n}, "bottom_right": {"x": n, "y": n}}
    }
  ]
}

Coordinates are a relative 0-100 plane, not real-world units. Spread locations out; do not cluster everything at the center. Geography areas should overlap the straight lines between some locations so that travel has obstacles.`

const regionMapSystemPrompt = `You are a fantasy cartographer detailing one region of a larger world.

Respond with ONLY a JSON object, no prose, matching this schema:
{
  "locations": [
    {
      "name": "string",
      "type": "city" | "town" | "village" | "dungeon" | "ruins",
      "x": number (0-100),
      "y": number (0-100),
      "description": "string",
      "population": number (optional),
      "services": ["string"] (optional)
    }
  ],
  "terrain": [
    {
      "type": "mountain" | "river" | "forest" | "desert" | "plain" | "hill" | "valley" | "lake",
      "name": "string",
      "description": "string",
      "area": {"top_left": {"x": n, "y": n}, "bottom_right": {"x": n, "y": n}}
    }
  ]
}

The region has its own 0-100 plane. Include at least one town and a few villages; villages should sit within reach of a town.`

// WorldMapPrompt builds the proposer conversation for the top-level map.
func WorldMapPrompt(setting Setting, locationCount int) []chat.ChatMessage {
	user := fmt.Sprintf(
		"Design the world map for %q, a %s story set in a %s era.\n\nWorld description: %s\n\nPropose %d world-scale locations and the major geographical features between them.",
		setting.Title, setting.Genre, setting.Era, setting.Description, locationCount)
	return []chat.ChatMessage{
		chat.SystemMessage(worldMapSystemPrompt),
		chat.UserMessage(user),
	}
}

// RegionMapPrompt builds the proposer conversation for one region drill-down.
func RegionMapPrompt(setting Setting, parent worldmap.Location, locationCount int) []chat.ChatMessage {
	user := fmt.Sprintf(
		"Detail the region around %s (%s). %s\n\nThe story is %q, a %s story in a %s era. Propose %d settlements and the terrain between them.",
		parent.Name, parent.Type, parent.Description,
		setting.Title, setting.Genre, setting.Era, locationCount)
	return []chat.ChatMessage{
		chat.SystemMessage(regionMapSystemPrompt),
		chat.UserMessage(user),
	}
}
