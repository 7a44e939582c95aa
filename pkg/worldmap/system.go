package worldmap

import "fmt"

// WorldMapSystem is the aggregate root for one project's geography: the world
// map, its region drill-downs, local maps, and the derived connection graph
// with travel times. It is created once by generation, persisted as a single
// blob, and read-mostly afterwards.
type WorldMapSystem struct {
	WorldMap    WorldMap        `json:"world_map"`
	Regions     []RegionMap     `json:"regions"`
	LocalMaps   []LocalMap      `json:"local_maps,omitempty"`
	Connections []MapConnection `json:"connections"`
	TravelTimes []TravelTime    `json:"travel_times"`
}

// Location returns the location with the given id at the given scale, or nil.
func (s *WorldMapSystem) Location(level MapLevel, id string) *Location {
	for _, loc := range s.LocationsAt(level) {
		if loc.ID == id {
			l := loc
			return &l
		}
	}
	return nil
}

// LocationsAt returns every location at the given scale, across all maps of
// that scale.
func (s *WorldMapSystem) LocationsAt(level MapLevel) []Location {
	switch level {
	case LevelWorld:
		return s.WorldMap.Locations
	case LevelRegion:
		var all []Location
		for _, r := range s.Regions {
			all = append(all, r.Locations...)
		}
		return all
	case LevelLocal:
		var all []Location
		for _, m := range s.LocalMaps {
			all = append(all, m.Locations...)
		}
		return all
	default:
		return nil
	}
}

// LocationsMatchingType returns the locations of one type at one scale.
func (s *WorldMapSystem) LocationsMatchingType(level MapLevel, t LocationType) []Location {
	var out []Location
	for _, loc := range s.LocationsAt(level) {
		if loc.Type == t {
			out = append(out, loc)
		}
	}
	return out
}

// FindLocation searches every scale in order (world, region, local) for the
// given id and reports the scale it was found at.
func (s *WorldMapSystem) FindLocation(id string) (*Location, MapLevel) {
	for _, level := range []MapLevel{LevelWorld, LevelRegion, LevelLocal} {
		if loc := s.Location(level, id); loc != nil {
			return loc, level
		}
	}
	return nil, ""
}

// RegionOf returns the region map containing the given location id, or nil.
func (s *WorldMapSystem) RegionOf(locationID string) *RegionMap {
	for i := range s.Regions {
		for _, loc := range s.Regions[i].Locations {
			if loc.ID == locationID {
				return &s.Regions[i]
			}
		}
	}
	return nil
}

// ConnectionBetween returns the first connection linking from to to, honoring
// directionality, or nil when no modeled connection exists.
func (s *WorldMapSystem) ConnectionBetween(fromID, toID string) *MapConnection {
	for i := range s.Connections {
		if s.Connections[i].Links(fromID, toID) {
			return &s.Connections[i]
		}
	}
	return nil
}

// TravelTimeFor returns the stored travel time for a connection and method
// type, or nil when the method has no entry on that connection.
func (s *WorldMapSystem) TravelTimeFor(connectionID string, method TravelMethodType) *TravelTime {
	for i := range s.TravelTimes {
		tt := &s.TravelTimes[i]
		if tt.ConnectionID == connectionID && tt.TravelMethod.Type == method {
			return tt
		}
	}
	return nil
}

// Validate checks the aggregate's structural invariants: unique location ids
// per scale, coordinates inside the 0-100 plane, and connection endpoints
// that resolve at a single scale.
func (s *WorldMapSystem) Validate() error {
	for _, level := range []MapLevel{LevelWorld, LevelRegion, LevelLocal} {
		seen := make(map[string]bool)
		for _, loc := range s.LocationsAt(level) {
			if seen[loc.ID] {
				return fmt.Errorf("duplicate location id %q at %s scale", loc.ID, level)
			}
			seen[loc.ID] = true
			c := loc.Coordinates
			if c.X < 0 || c.X > 100 || c.Y < 0 || c.Y > 100 {
				return fmt.Errorf("location %q coordinates (%.1f, %.1f) outside 0-100 plane", loc.ID, c.X, c.Y)
			}
		}
	}
	for _, conn := range s.Connections {
		from, fromLevel := s.FindLocation(conn.FromLocationID)
		to, toLevel := s.FindLocation(conn.ToLocationID)
		if from == nil || to == nil {
			return fmt.Errorf("connection %q references missing location", conn.ID)
		}
		if fromLevel != toLevel {
			return fmt.Errorf("connection %q spans scales %s and %s", conn.ID, fromLevel, toLevel)
		}
	}
	return nil
}
