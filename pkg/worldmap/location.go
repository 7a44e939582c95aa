package worldmap

import "github.com/hmiyata/story-atlas/pkg/geo"

// MapLevel identifies one of the three map scales. Each level has its own
// 0-100 coordinate plane and its own location type vocabulary.
type MapLevel string

const (
	LevelWorld  MapLevel = "world"
	LevelRegion MapLevel = "region"
	LevelLocal  MapLevel = "local"
)

// LocationType classifies a location within its scale.
type LocationType string

// World-scale location types.
const (
	TypeCapital   LocationType = "capital"
	TypeMajorCity LocationType = "major_city"
	TypeLandmark  LocationType = "landmark"
	TypeRegion    LocationType = "region"
)

// Region-scale location types.
const (
	TypeCity    LocationType = "city"
	TypeTown    LocationType = "town"
	TypeVillage LocationType = "village"
	TypeDungeon LocationType = "dungeon"
	TypeRuins   LocationType = "ruins"
)

// Local-scale location types.
const (
	TypeBuilding LocationType = "building"
	TypeStreet   LocationType = "street"
	TypePlaza    LocationType = "plaza"
)

// Location is a named place on one map scale. IDs are unique within their
// owning map and are the only way other records refer to a location.
type Location struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Type        LocationType    `json:"type"`
	Coordinates geo.Coordinates `json:"coordinates"`
	Description string          `json:"description,omitempty"`
	Population  int             `json:"population,omitempty"`
	Climate     string          `json:"climate,omitempty"`
	Culture     string          `json:"cultural_affiliation,omitempty"`
	Importance  string          `json:"importance,omitempty"`
	Services    []string        `json:"services,omitempty"`
}

// IsMajor reports whether the location anchors connectivity at its scale.
// Major locations get supplementary trade-route edges; minor ones are
// force-connected to their nearest major hub instead.
func (l Location) IsMajor() bool {
	switch l.Type {
	case TypeCapital, TypeMajorCity, TypeCity, TypeTown:
		return true
	default:
		return false
	}
}

// WorldMap is the top-level scale: the continent view.
type WorldMap struct {
	Locations []Location                `json:"locations"`
	Geography []geo.GeographicalFeature `json:"geography,omitempty"`
}

// RegionMap is one drill-down from a world location.
type RegionMap struct {
	ParentLocationID string                    `json:"parent_location_id"`
	Locations        []Location                `json:"locations"`
	Terrain          []geo.GeographicalFeature `json:"terrain,omitempty"`
}

// LocalMap is a finer drill-down under a region. It is part of the model but
// the generation path described here does not populate it.
type LocalMap struct {
	ParentLocationID string                    `json:"parent_location_id"`
	Locations        []Location                `json:"locations"`
	Terrain          []geo.GeographicalFeature `json:"terrain,omitempty"`
}
