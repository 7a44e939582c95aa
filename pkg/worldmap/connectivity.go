package worldmap

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hmiyata/story-atlas/pkg/geo"
)

// Distance cutoffs per scale, in map units. A pure MST under-connects (no
// redundancy, implausible detours between close nodes) and a complete graph
// over-connects (a direct road between every pair of cities). The builder
// uses an MST for guaranteed reachability plus short supplementary edges for
// local density.
const (
	worldMaxConnectionDistance  = 50.0
	regionMaxConnectionDistance = 40.0
	localMaxConnectionDistance  = 30.0

	worldTradeRouteDistance  = 25.0
	regionTradeRouteDistance = 20.0

	hubLinkDistance = 15.0
)

// ConnectivityBuilder derives the connection graph for one map scale.
type ConnectivityBuilder struct {
	Level    MapLevel
	Features []geo.GeographicalFeature
}

// NewConnectivityBuilder returns a builder for the given scale and terrain.
func NewConnectivityBuilder(level MapLevel, features []geo.GeographicalFeature) *ConnectivityBuilder {
	return &ConnectivityBuilder{Level: level, Features: features}
}

func (b *ConnectivityBuilder) maxDistance() float64 {
	switch b.Level {
	case LevelWorld:
		return worldMaxConnectionDistance
	case LevelRegion:
		return regionMaxConnectionDistance
	default:
		return localMaxConnectionDistance
	}
}

func (b *ConnectivityBuilder) tradeRouteDistance() float64 {
	if b.Level == LevelWorld {
		return worldTradeRouteDistance
	}
	return regionTradeRouteDistance
}

// permissible reports whether an edge between the two locations is allowed at
// all: close enough for the scale, and not crossing an ocean.
func (b *ConnectivityBuilder) permissible(from, to Location) bool {
	if geo.Distance(from.Coordinates, to.Coordinates) > b.maxDistance() {
		return false
	}
	for _, f := range b.Features {
		if f.Type == geo.FeatureOcean && geo.CrossesFeature(from.Coordinates, to.Coordinates, f) {
			return false
		}
	}
	return true
}

// connect builds the edge record for a permissible pair. Distance sets the
// base difficulty and type; terrain under the path ratchets difficulty up and
// can demote a road to a path.
func (b *ConnectivityBuilder) connect(from, to Location, description string) MapConnection {
	dist := geo.Distance(from.Coordinates, to.Coordinates)

	difficulty := DifficultyEasy
	if dist > hubLinkDistance {
		difficulty = DifficultyModerate
	}

	for _, f := range b.Features {
		if !geo.CrossesFeature(from.Coordinates, to.Coordinates, f) {
			continue
		}
		switch f.Type {
		case geo.FeatureMountain:
			difficulty = Harder(difficulty, DifficultyDifficult)
		case geo.FeatureDesert:
			difficulty = Harder(difficulty, DifficultyDangerous)
		case geo.FeatureRiver, geo.FeatureLake:
			difficulty = Harder(difficulty, DifficultyModerate)
		case geo.FeatureForest, geo.FeatureHill:
			difficulty = Harder(difficulty, DifficultyModerate)
		}
	}

	connType := ConnRoad
	if dist > b.maxDistance()/2 || difficultyRank[difficulty] >= difficultyRank[DifficultyDifficult] {
		connType = ConnPath
	}

	if description == "" {
		description = fmt.Sprintf("%s between %s and %s", connType, from.Name, to.Name)
	}

	return MapConnection{
		ID:             uuid.NewString(),
		FromLocationID: from.ID,
		ToLocationID:   to.ID,
		Bidirectional:  true,
		ConnectionType: connType,
		Difficulty:     difficulty,
		Description:    description,
	}
}

// Build derives the full connection set for the given locations: a Prim-style
// minimum spanning tree for guaranteed reachability, then supplementary
// short-range edges.
func (b *ConnectivityBuilder) Build(locations []Location) []MapConnection {
	if len(locations) < 2 {
		return nil
	}

	connections := b.spanningTree(locations)
	connections = append(connections, b.tradeRoutes(locations, connections)...)
	if b.Level != LevelWorld {
		connections = append(connections, b.hubLinks(locations, connections)...)
	}
	return connections
}

// spanningTree grows a minimum spanning tree over the permissible-edge set:
// start from the first location and repeatedly attach the nearest unvisited
// location. O(n^2) per step is fine at tens of nodes.
func (b *ConnectivityBuilder) spanningTree(locations []Location) []MapConnection {
	visited := map[string]bool{locations[0].ID: true}
	var connections []MapConnection

	for len(visited) < len(locations) {
		bestDist := -1.0
		var bestFrom, bestTo *Location
		for i := range locations {
			from := &locations[i]
			if !visited[from.ID] {
				continue
			}
			for j := range locations {
				to := &locations[j]
				if visited[to.ID] || !b.permissible(*from, *to) {
					continue
				}
				d := geo.Distance(from.Coordinates, to.Coordinates)
				if bestDist < 0 || d < bestDist {
					bestDist = d
					bestFrom, bestTo = from, to
				}
			}
		}
		if bestFrom == nil {
			// Remaining locations are unreachable at this scale's cutoff.
			break
		}
		visited[bestTo.ID] = true
		connections = append(connections, b.connect(*bestFrom, *bestTo, ""))
	}
	return connections
}

// tradeRoutes adds a bidirectional edge between every pair of major locations
// within the trade-route distance that the tree did not already join.
func (b *ConnectivityBuilder) tradeRoutes(locations []Location, existing []MapConnection) []MapConnection {
	var extra []MapConnection
	connected := func(a, z string) bool {
		for _, c := range existing {
			if c.Links(a, z) {
				return true
			}
		}
		for _, c := range extra {
			if c.Links(a, z) {
				return true
			}
		}
		return false
	}

	for i := range locations {
		for j := i + 1; j < len(locations); j++ {
			from, to := locations[i], locations[j]
			if !from.IsMajor() || !to.IsMajor() {
				continue
			}
			if geo.Distance(from.Coordinates, to.Coordinates) > b.tradeRouteDistance() {
				continue
			}
			if !b.permissible(from, to) || connected(from.ID, to.ID) {
				continue
			}
			extra = append(extra, b.connect(from, to, fmt.Sprintf("trade route between %s and %s", from.Name, to.Name)))
		}
	}
	return extra
}

// hubLinks force-connects every minor location to its nearest major one when
// that hub is close enough, so no settlement is permanently cut off from its
// natural hub even if the tree attached it elsewhere.
func (b *ConnectivityBuilder) hubLinks(locations []Location, existing []MapConnection) []MapConnection {
	var extra []MapConnection
	connected := func(a, z string) bool {
		for _, c := range existing {
			if c.Links(a, z) {
				return true
			}
		}
		for _, c := range extra {
			if c.Links(a, z) {
				return true
			}
		}
		return false
	}

	for i := range locations {
		minor := locations[i]
		if minor.IsMajor() {
			continue
		}
		bestDist := -1.0
		var hub *Location
		for j := range locations {
			major := &locations[j]
			if !major.IsMajor() {
				continue
			}
			d := geo.Distance(minor.Coordinates, major.Coordinates)
			if bestDist < 0 || d < bestDist {
				bestDist = d
				hub = major
			}
		}
		if hub == nil || bestDist > hubLinkDistance {
			continue
		}
		if connected(minor.ID, hub.ID) {
			continue
		}
		extra = append(extra, b.connect(minor, *hub, fmt.Sprintf("local road between %s and %s", minor.Name, hub.Name)))
	}
	return extra
}
