package geo

import "math"

// Coordinates is a point in a map's relative plane. Each map scale has its
// own 0-100 plane; coordinates are never comparable across scales.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Area is an axis-aligned bounding box in a map's relative plane.
type Area struct {
	TopLeft     Coordinates `json:"top_left"`
	BottomRight Coordinates `json:"bottom_right"`
}

// FeatureType identifies a kind of geographical feature.
type FeatureType string

const (
	FeatureMountain FeatureType = "mountain"
	FeatureRiver    FeatureType = "river"
	FeatureForest   FeatureType = "forest"
	FeatureDesert   FeatureType = "desert"
	FeatureOcean    FeatureType = "ocean"
	FeaturePlain    FeatureType = "plain"
	FeatureHill     FeatureType = "hill"
	FeatureValley   FeatureType = "valley"
	FeatureLake     FeatureType = "lake"
	FeatureRoad     FeatureType = "road"
	FeatureBridge   FeatureType = "bridge"
	FeatureRuin     FeatureType = "ruin"
)

// GeographicalFeature is terrain that modifies connectivity and travel cost.
// Features are never destinations; they only make trips harder or reroute them.
type GeographicalFeature struct {
	Type        FeatureType  `json:"type"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Area        *Area        `json:"area,omitempty"`
	Position    *Coordinates `json:"position,omitempty"`
}

// Distance returns the Euclidean distance between two points, in map units.
func Distance(a, b Coordinates) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Coordinates) Coordinates {
	return Coordinates{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Contains reports whether p falls inside the area.
func (a Area) Contains(p Coordinates) bool {
	return p.X >= a.TopLeft.X && p.X <= a.BottomRight.X &&
		p.Y >= a.TopLeft.Y && p.Y <= a.BottomRight.Y
}

// CrossesFeature reports whether the straight segment from a to b passes
// through the feature's area. The test is deliberately coarse: only the
// segment midpoint is checked against the bounding box. Exact
// segment-rectangle intersection would change generated connectivity, so the
// cheap test is kept on purpose.
func CrossesFeature(a, b Coordinates, f GeographicalFeature) bool {
	if f.Area == nil {
		return false
	}
	return f.Area.Contains(Midpoint(a, b))
}

// TerrainMultiplier returns the off-road cost factor for a feature type.
// Shared by the connectivity builder and the pathfinder's off-road fallback
// so the two never disagree about how hostile a terrain is.
func TerrainMultiplier(t FeatureType) float64 {
	switch t {
	case FeatureMountain:
		return 3.0
	case FeatureRiver:
		return 4.0
	case FeatureDesert:
		return 2.5
	case FeatureForest:
		return 2.0
	default:
		return 1.5
	}
}

// SegmentTerrainMultiplier returns the worst terrain multiplier among the
// features the segment from a to b crosses. Open ground costs 1.5; the
// multiplier never goes below that once any feature is in the way.
func SegmentTerrainMultiplier(a, b Coordinates, features []GeographicalFeature) float64 {
	mult := 1.5
	for _, f := range features {
		if !CrossesFeature(a, b, f) {
			continue
		}
		if m := TerrainMultiplier(f.Type); m > mult {
			mult = m
		}
	}
	return mult
}
