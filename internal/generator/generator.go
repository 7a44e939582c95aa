package generator

import (
	"context"
	"log/slog"

	"github.com/hmiyata/story-atlas/internal/services"
	"github.com/hmiyata/story-atlas/pkg/geo"
	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

const (
	defaultWorldLocationCount  = 8
	defaultRegionLocationCount = 6
)

// MapGenerator builds a complete WorldMapSystem from proposer calls. Every
// failure path substitutes a deterministic fallback, so generation never
// surfaces an error to the caller.
type MapGenerator struct {
	llm    services.LLMService
	logger *slog.Logger
}

// NewMapGenerator returns a generator backed by the given proposer.
func NewMapGenerator(llm services.LLMService, logger *slog.Logger) *MapGenerator {
	return &MapGenerator{llm: llm, logger: logger}
}

// GenerateSystem produces the full geography for a setting: world map, one
// region per major world location, the connection graph for every scale, and
// travel times. Proposer calls run sequentially so later regions can react to
// earlier results.
func (g *MapGenerator) GenerateSystem(ctx context.Context, setting Setting) *worldmap.WorldMapSystem {
	system := &worldmap.WorldMapSystem{
		WorldMap: g.generateWorldMap(ctx, setting),
	}

	for _, loc := range system.WorldMap.Locations {
		if !loc.IsMajor() {
			continue
		}
		system.Regions = append(system.Regions, g.generateRegionMap(ctx, setting, loc))
	}

	worldBuilder := worldmap.NewConnectivityBuilder(worldmap.LevelWorld, system.WorldMap.Geography)
	system.Connections = worldBuilder.Build(system.WorldMap.Locations)
	for _, region := range system.Regions {
		regionBuilder := worldmap.NewConnectivityBuilder(worldmap.LevelRegion, region.Terrain)
		system.Connections = append(system.Connections, regionBuilder.Build(region.Locations)...)
	}

	methods := worldmap.DefaultTravelMethods(setting.Era)
	system.TravelTimes = g.calculateTravelTimes(system, methods)

	if err := system.Validate(); err != nil {
		// Should not happen with generated ids; log and keep the system
		// usable rather than failing the whole generation pass.
		g.logger.Warn("Generated system failed validation", "error", err)
	}
	return system
}

func (g *MapGenerator) calculateTravelTimes(system *worldmap.WorldMapSystem, methods []worldmap.TravelMethod) []worldmap.TravelTime {
	var times []worldmap.TravelTime
	for _, level := range []worldmap.MapLevel{worldmap.LevelWorld, worldmap.LevelRegion} {
		var conns []worldmap.MapConnection
		for _, c := range system.Connections {
			if _, l := system.FindLocation(c.FromLocationID); l == level {
				conns = append(conns, c)
			}
		}
		calc := worldmap.NewTravelTimeCalculator(level, methods)
		times = append(times, calc.Calculate(system, conns)...)
	}
	return times
}

func (g *MapGenerator) generateWorldMap(ctx context.Context, setting Setting) worldmap.WorldMap {
	text, err := g.llm.Chat(ctx, WorldMapPrompt(setting, defaultWorldLocationCount))
	if err != nil {
		g.logger.Warn("World map proposal failed, using fallback map", "error", err)
		return fallbackWorldMap(setting)
	}

	wm, err := ParseWorldMap(text)
	if err != nil {
		g.logger.Warn("World map proposal unparseable, using fallback map", "error", err)
		return fallbackWorldMap(setting)
	}

	g.logger.Info("World map generated", "locations", len(wm.Locations), "features", len(wm.Geography))
	return *wm
}

func (g *MapGenerator) generateRegionMap(ctx context.Context, setting Setting, parent worldmap.Location) worldmap.RegionMap {
	text, err := g.llm.Chat(ctx, RegionMapPrompt(setting, parent, defaultRegionLocationCount))
	if err != nil {
		g.logger.Warn("Region proposal failed, using fallback region", "parent", parent.ID, "error", err)
		return fallbackRegionMap(parent)
	}

	rm, err := ParseRegionMap(text, parent.ID)
	if err != nil {
		g.logger.Warn("Region proposal unparseable, using fallback region", "parent", parent.ID, "error", err)
		return fallbackRegionMap(parent)
	}

	g.logger.Info("Region map generated", "parent", parent.ID, "locations", len(rm.Locations))
	return *rm
}

// fallbackWorldMap is the deterministic minimal world: a single capital at
// the center of the plane.
func fallbackWorldMap(setting Setting) worldmap.WorldMap {
	name := "Capital"
	if setting.Title != "" {
		name = setting.Title + " Capital"
	}
	return worldmap.WorldMap{
		Locations: []worldmap.Location{
			{
				ID:          "world-capital",
				Name:        name,
				Type:        worldmap.TypeCapital,
				Coordinates: geo.Coordinates{X: 50, Y: 50},
				Description: "The capital of the known world.",
			},
		},
	}
}

// fallbackRegionMap is the deterministic minimal region: one settlement at
// the center of the parent's plane.
func fallbackRegionMap(parent worldmap.Location) worldmap.RegionMap {
	return worldmap.RegionMap{
		ParentLocationID: parent.ID,
		Locations: []worldmap.Location{
			{
				ID:          parent.ID + "-town",
				Name:        parent.Name + " Town",
				Type:        worldmap.TypeTown,
				Coordinates: geo.Coordinates{X: 50, Y: 50},
				Description: "The settlement at the heart of " + parent.Name + ".",
			},
		},
	}
}
