package worldmap

import (
	"fmt"
	"math"
	"strings"
)

// Fixed km-per-unit scale factors per map level. These are a deliberate
// abstraction for travel-time estimates, not ground-truth distances.
const (
	worldKmPerUnit  = 10.0
	regionKmPerUnit = 2.0
	localKmPerUnit  = 0.1
)

// KmPerUnit returns the km conversion factor for a map level.
func KmPerUnit(level MapLevel) float64 {
	switch level {
	case LevelWorld:
		return worldKmPerUnit
	case LevelRegion:
		return regionKmPerUnit
	default:
		return localKmPerUnit
	}
}

// DefaultTravelMethods returns the movement modes available in the setting's
// era. Unrecognized eras get the medieval set, the common case for this kind
// of fiction.
func DefaultTravelMethods(era string) []TravelMethod {
	methods := []TravelMethod{
		{Type: MethodWalking, SpeedKmh: 5, Availability: "common"},
		{Type: MethodHorseback, SpeedKmh: 30, Availability: "common"},
		{Type: MethodCarriage, SpeedKmh: 15, Availability: "noble"},
		{Type: MethodShip, SpeedKmh: 20, Availability: "common"},
	}
	switch strings.ToLower(era) {
	case "ancient":
		methods = []TravelMethod{
			{Type: MethodWalking, SpeedKmh: 5, Availability: "common"},
			{Type: MethodHorseback, SpeedKmh: 25, Availability: "rare"},
			{Type: MethodShip, SpeedKmh: 12, Availability: "common"},
		}
	case "fantasy":
		methods = append(methods, TravelMethod{Type: MethodFlight, SpeedKmh: 80, Availability: "rare"})
	}
	return methods
}

// Compatible reports whether a travel method can use a connection type.
// Walking and flight work on every connection; a river or sea route on foot
// means following the bank or the coast.
func Compatible(method TravelMethodType, conn ConnectionType) bool {
	switch method {
	case MethodWalking, MethodFlight:
		return true
	case MethodHorseback:
		return conn == ConnRoad || conn == ConnPath
	case MethodCarriage:
		return conn == ConnRoad
	case MethodShip:
		return conn == ConnRiver || conn == ConnSeaRoute
	default:
		return false
	}
}

// TravelTimeCalculator assigns time costs to (connection, method) pairs.
type TravelTimeCalculator struct {
	Level   MapLevel
	Methods []TravelMethod
}

// NewTravelTimeCalculator returns a calculator for one scale and era.
func NewTravelTimeCalculator(level MapLevel, methods []TravelMethod) *TravelTimeCalculator {
	return &TravelTimeCalculator{Level: level, Methods: methods}
}

// TimeFor computes the base time in minutes to traverse km at the method's
// speed under the given difficulty.
func TimeFor(km float64, method TravelMethod, difficulty Difficulty) int {
	if method.SpeedKmh <= 0 {
		return 0
	}
	effective := method.SpeedKmh / difficulty.Multiplier()
	return int(math.Round(km / effective * 60))
}

// Calculate produces one TravelTime entry per (connection, compatible method)
// pair. Distances come from the connected locations' coordinates via the
// scale's fixed km factor.
func (c *TravelTimeCalculator) Calculate(system *WorldMapSystem, connections []MapConnection) []TravelTime {
	var times []TravelTime
	for _, conn := range connections {
		from, _ := system.FindLocation(conn.FromLocationID)
		to, _ := system.FindLocation(conn.ToLocationID)
		if from == nil || to == nil {
			continue
		}
		km := geoDistanceKm(*from, *to, c.Level)
		for _, method := range c.Methods {
			if !Compatible(method.Type, conn.ConnectionType) {
				continue
			}
			tt := TravelTime{
				ConnectionID: conn.ID,
				TravelMethod: method,
				BaseTime:     TimeFor(km, method, conn.Difficulty),
			}
			if conn.Difficulty == DifficultyDangerous {
				tt.Conditions = "hazardous terrain, daylight travel only"
			}
			times = append(times, tt)
		}
	}
	return times
}

func geoDistanceKm(from, to Location, level MapLevel) float64 {
	dx := from.Coordinates.X - to.Coordinates.X
	dy := from.Coordinates.Y - to.Coordinates.Y
	return math.Sqrt(dx*dx+dy*dy) * KmPerUnit(level)
}

// DescribeDuration renders minutes as a narrative-friendly duration.
func DescribeDuration(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 60*24:
		return fmt.Sprintf("about %d hours", int(math.Round(float64(minutes)/60)))
	default:
		return fmt.Sprintf("about %d days", int(math.Round(float64(minutes)/(60*24))))
	}
}
