package worldmap

import (
	"container/heap"
	"math"

	"github.com/hmiyata/story-atlas/pkg/geo"
)

const (
	// Synthetic off-road edges exist only within this radius, in map units.
	offRoadRadius = 20.0
	// Base cost penalty for traveling without a modeled connection,
	// multiplied by the terrain factor of whatever lies in the way.
	offRoadPenalty = 20.0
	// Fastest mode the engine models; bounds the cheapest possible edge cost
	// per map unit.
	maxFlightSpeedKmh = 80.0
)

// PathResult is a route between two locations on one scale.
type PathResult struct {
	Path            []string        `json:"path"`
	TotalTime       int             `json:"total_time"`
	ConnectionsUsed []MapConnection `json:"connections_used"`
	RequiresOffRoad bool            `json:"requires_off_road"`
}

// Pathfinder answers best-route queries over a system's connection graph.
type Pathfinder struct {
	system *WorldMapSystem
}

// NewPathfinder returns a pathfinder over the given system.
func NewPathfinder(system *WorldMapSystem) *Pathfinder {
	return &Pathfinder{system: system}
}

// featuresAt returns the terrain relevant to a scale.
func (p *Pathfinder) featuresAt(level MapLevel) []geo.GeographicalFeature {
	switch level {
	case LevelWorld:
		return p.system.WorldMap.Geography
	case LevelRegion:
		var all []geo.GeographicalFeature
		for _, r := range p.system.Regions {
			all = append(all, r.Terrain...)
		}
		return all
	default:
		var all []geo.GeographicalFeature
		for _, m := range p.system.LocalMaps {
			all = append(all, m.Terrain...)
		}
		return all
	}
}

// searchNode is a priority-queue entry: a location id ordered by f = g + h.
type searchNode struct {
	id    string
	f     float64
	index int
}

type searchQueue []*searchNode

func (q searchQueue) Len() int            { return len(q) }
func (q searchQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q searchQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i]; q[i].index, q[j].index = i, j }
func (q *searchQueue) Push(x interface{}) { n := x.(*searchNode); n.index = len(*q); *q = append(*q, n) }
func (q *searchQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]
	return n
}

type cameFrom struct {
	prev string
	conn *MapConnection // nil for an off-road step
}

// FindPath runs A* from fromID to toID for the given travel method. Both
// locations must live on the same scale. Returns nil when no route exists,
// which callers must treat as "no known route", not a failure.
func (p *Pathfinder) FindPath(fromID, toID string, method TravelMethodType) *PathResult {
	from, fromLevel := p.system.FindLocation(fromID)
	to, toLevel := p.system.FindLocation(toID)
	if from == nil || to == nil || fromLevel != toLevel {
		return nil
	}
	if fromID == toID {
		return &PathResult{Path: []string{fromID}}
	}

	level := fromLevel
	features := p.featuresAt(level)
	locations := p.system.LocationsAt(level)
	byID := make(map[string]Location, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	goal := to.Coordinates
	// A modeled edge can cost as little as distance × km-per-unit at flight
	// speed, which at local scale is under one minute per map unit. The
	// estimate is clamped to that floor so it never exceeds a real cost.
	heuristicScale := math.Min(1, KmPerUnit(level)*60/maxFlightSpeedKmh)
	heuristic := func(id string) float64 {
		return geo.Distance(byID[id].Coordinates, goal) * heuristicScale
	}

	gScore := map[string]float64{fromID: 0}
	prev := make(map[string]cameFrom)
	open := &searchQueue{}
	heap.Init(open)
	heap.Push(open, &searchNode{id: fromID, f: heuristic(fromID)})
	closed := make(map[string]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if current.id == toID {
			return p.reconstruct(fromID, toID, prev, byID, level, features, method)
		}
		if closed[current.id] {
			continue
		}
		closed[current.id] = true

		for _, edge := range p.neighbors(current.id, byID, level, features, method) {
			tentative := gScore[current.id] + edge.cost
			if g, seen := gScore[edge.to]; seen && tentative >= g {
				continue
			}
			gScore[edge.to] = tentative
			prev[edge.to] = cameFrom{prev: current.id, conn: edge.conn}
			heap.Push(open, &searchNode{id: edge.to, f: tentative + heuristic(edge.to)})
		}
	}
	return nil
}

type edge struct {
	to   string
	cost float64
	conn *MapConnection
}

// neighbors yields the outgoing edges of a node: every modeled connection,
// costed by its stored travel time for the method, plus a synthetic off-road
// edge to every unconnected location within the off-road radius.
func (p *Pathfinder) neighbors(id string, byID map[string]Location, level MapLevel, features []geo.GeographicalFeature, method TravelMethodType) []edge {
	var edges []edge
	loc := byID[id]

	connectedTo := make(map[string]bool)
	for i := range p.system.Connections {
		conn := &p.system.Connections[i]
		var otherID string
		switch {
		case conn.FromLocationID == id:
			otherID = conn.ToLocationID
		case conn.Bidirectional && conn.ToLocationID == id:
			otherID = conn.FromLocationID
		default:
			continue
		}
		other, ok := byID[otherID]
		if !ok {
			continue
		}
		connectedTo[otherID] = true
		edges = append(edges, edge{
			to:   otherID,
			cost: float64(p.connectionTime(conn, loc, other, level, method)),
			conn: conn,
		})
	}

	for otherID, other := range byID {
		if otherID == id || connectedTo[otherID] {
			continue
		}
		dist := geo.Distance(loc.Coordinates, other.Coordinates)
		if dist > offRoadRadius {
			continue
		}
		terrain := geo.SegmentTerrainMultiplier(loc.Coordinates, other.Coordinates, features)
		edges = append(edges, edge{
			to:   otherID,
			cost: dist * offRoadPenalty * terrain,
		})
	}
	return edges
}

// connectionTime returns the stored travel time for a connection and method,
// falling back to a walking-pace estimate when the method has no entry.
func (p *Pathfinder) connectionTime(conn *MapConnection, from, to Location, level MapLevel, method TravelMethodType) int {
	if tt := p.system.TravelTimeFor(conn.ID, method); tt != nil {
		return tt.BaseTime
	}
	km := geoDistanceKm(from, to, level)
	return TimeFor(km, TravelMethod{Type: MethodWalking, SpeedKmh: 5}, conn.Difficulty)
}

// offRoadTime estimates minutes for an off-road step: mode speed slowed by
// the terrain in the way.
func offRoadTime(from, to Location, level MapLevel, features []geo.GeographicalFeature, method TravelMethodType) int {
	km := geoDistanceKm(from, to, level)
	terrain := geo.SegmentTerrainMultiplier(from.Coordinates, to.Coordinates, features)
	speed := 5.0 // off-road travel is on foot unless the method says otherwise
	if method == MethodHorseback {
		speed = 15
	}
	if method == MethodFlight {
		speed = maxFlightSpeedKmh
		terrain = 1.0
	}
	return int(math.Round(km / (speed / terrain) * 60))
}

// reconstruct walks predecessor links from the goal back to the start,
// summing stored times for modeled steps and recomputed times for off-road
// steps.
func (p *Pathfinder) reconstruct(fromID, toID string, prev map[string]cameFrom, byID map[string]Location, level MapLevel, features []geo.GeographicalFeature, method TravelMethodType) *PathResult {
	var path []string
	result := &PathResult{}

	for id := toID; ; {
		path = append([]string{id}, path...)
		if id == fromID {
			break
		}
		step := prev[id]
		if step.conn != nil {
			result.ConnectionsUsed = append([]MapConnection{*step.conn}, result.ConnectionsUsed...)
			result.TotalTime += p.connectionTime(step.conn, byID[step.prev], byID[id], level, method)
		} else {
			result.RequiresOffRoad = true
			result.TotalTime += offRoadTime(byID[step.prev], byID[id], level, features, method)
		}
		id = step.prev
	}

	result.Path = path
	return result
}
