package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hmiyata/story-atlas/pkg/geo"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// proposedLocation mirrors the JSON shape the proposer returns for one place.
// Every field is optional on the wire; validation happens after parsing.
type proposedLocation struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Description string   `json:"description"`
	Population  int      `json:"population"`
	Climate     string   `json:"climate"`
	Culture     string   `json:"cultural_affiliation"`
	Importance  string   `json:"importance"`
	Services    []string `json:"services"`
}

type proposedFeature struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Area        *geo.Area `json:"area"`
}

type worldResponse struct {
	Locations []proposedLocation `json:"locations"`
	Geography []proposedFeature  `json:"geography"`
}

type regionResponse struct {
	Locations []proposedLocation `json:"locations"`
	Terrain   []proposedFeature  `json:"terrain"`
}

// decodeProposal parses the proposer's response text into v. It tries several
// strategies in order: direct parse, first-{ to last-} slice, ```json fence,
// then any bare fence. LLMs wrap JSON in prose and fences unpredictably.
func decodeProposal(text string, v interface{}) error {
	text = strings.TrimSpace(text)

	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}

	if start := strings.Index(text, "{"); start >= 0 {
		if end := strings.LastIndex(text, "}"); end > start {
			if err := json.Unmarshal([]byte(text[start:end+1]), v); err == nil {
				return nil
			}
		}
	}

	if idx := strings.Index(text, "```json"); idx >= 0 {
		after := text[idx+7:]
		if end := strings.Index(after, "```"); end >= 0 {
			if err := json.Unmarshal([]byte(strings.TrimSpace(after[:end])), v); err == nil {
				return nil
			}
		}
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		after := text[idx+3:]
		if end := strings.Index(after, "```"); end >= 0 {
			if err := json.Unmarshal([]byte(strings.TrimSpace(after[:end])), v); err == nil {
				return nil
			}
		}
	}

	return fmt.Errorf("failed to parse proposer response as JSON: %.200s", text)
}

// ParseWorldMap turns proposer output into a world map. The locations field
// is the contract: absent or empty means the proposal is unusable and the
// caller substitutes the fallback map.
func ParseWorldMap(text string) (*worldmap.WorldMap, error) {
	var resp worldResponse
	if err := decodeProposal(text, &resp); err != nil {
		return nil, err
	}
	locations := buildLocations(resp.Locations, "world", worldmap.TypeLandmark)
	if len(locations) == 0 {
		return nil, fmt.Errorf("proposer response contained no usable locations")
	}
	return &worldmap.WorldMap{
		Locations: locations,
		Geography: buildFeatures(resp.Geography),
	}, nil
}

// ParseRegionMap turns proposer output into a region map under the given
// parent world location.
func ParseRegionMap(text string, parentID string) (*worldmap.RegionMap, error) {
	var resp regionResponse
	if err := decodeProposal(text, &resp); err != nil {
		return nil, err
	}
	locations := buildLocations(resp.Locations, parentID, worldmap.TypeVillage)
	if len(locations) == 0 {
		return nil, fmt.Errorf("proposer response contained no usable locations")
	}
	return &worldmap.RegionMap{
		ParentLocationID: parentID,
		Locations:        locations,
		Terrain:          buildFeatures(resp.Terrain),
	}, nil
}

// buildLocations validates proposed locations into domain records: nameless
// entries are dropped, coordinates are clamped into the plane, ids are
// derived from names and kept unique with a numeric suffix.
func buildLocations(proposed []proposedLocation, idPrefix string, defaultType worldmap.LocationType) []worldmap.Location {
	var locations []worldmap.Location
	usedIDs := make(map[string]bool)

	for _, p := range proposed {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}

		locType := worldmap.LocationType(strings.TrimSpace(strings.ToLower(p.Type)))
		if locType == "" {
			locType = defaultType
		}

		id := idPrefix + "-" + slugify(name)
		for n := 2; usedIDs[id]; n++ {
			id = fmt.Sprintf("%s-%s-%d", idPrefix, slugify(name), n)
		}
		usedIDs[id] = true

		locations = append(locations, worldmap.Location{
			ID:          id,
			Name:        name,
			Type:        locType,
			Coordinates: geo.Coordinates{X: clamp(p.X), Y: clamp(p.Y)},
			Description: strings.TrimSpace(p.Description),
			Population:  p.Population,
			Climate:     p.Climate,
			Culture:     p.Culture,
			Importance:  p.Importance,
			Services:    p.Services,
		})
	}
	return locations
}

func buildFeatures(proposed []proposedFeature) []geo.GeographicalFeature {
	var features []geo.GeographicalFeature
	for _, p := range proposed {
		t := geo.FeatureType(strings.TrimSpace(strings.ToLower(p.Type)))
		if t == "" || strings.TrimSpace(p.Name) == "" {
			continue
		}
		if p.Area != nil {
			p.Area.TopLeft = geo.Coordinates{X: clamp(p.Area.TopLeft.X), Y: clamp(p.Area.TopLeft.Y)}
			p.Area.BottomRight = geo.Coordinates{X: clamp(p.Area.BottomRight.X), Y: clamp(p.Area.BottomRight.Y)}
		}
		features = append(features, geo.GeographicalFeature{
			Type:        t,
			Name:        strings.TrimSpace(p.Name),
			Description: strings.TrimSpace(p.Description),
			Area:        p.Area,
		})
	}
	return features
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// slugify lowercases a name into an id-safe token. Non-alphanumeric runes
// (including CJK, which survives as-is) become hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r > 127:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
