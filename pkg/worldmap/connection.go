package worldmap

// ConnectionType classifies how two locations are linked.
type ConnectionType string

const (
	ConnRoad     ConnectionType = "road"
	ConnPath     ConnectionType = "path"
	ConnRiver    ConnectionType = "river"
	ConnSeaRoute ConnectionType = "sea_route"
	ConnAirRoute ConnectionType = "air_route"
	ConnMagical  ConnectionType = "magical"
)

// Difficulty rates how hard a connection is to traverse. Terrain only ever
// ratchets difficulty up, never down.
type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyModerate  Difficulty = "moderate"
	DifficultyDifficult Difficulty = "difficult"
	DifficultyDangerous Difficulty = "dangerous"
)

var difficultyRank = map[Difficulty]int{
	DifficultyEasy:      0,
	DifficultyModerate:  1,
	DifficultyDifficult: 2,
	DifficultyDangerous: 3,
}

// Harder returns the harder of two difficulties.
func Harder(a, b Difficulty) Difficulty {
	if difficultyRank[b] > difficultyRank[a] {
		return b
	}
	return a
}

// Multiplier returns the travel-time multiplier for the difficulty.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case DifficultyModerate:
		return 1.5
	case DifficultyDifficult:
		return 2.0
	case DifficultyDangerous:
		return 3.0
	default:
		return 1.0
	}
}

// MapConnection is an edge between two locations on the same scale. Endpoints
// are weak references resolved through the owning system's registry.
type MapConnection struct {
	ID             string         `json:"id"`
	FromLocationID string         `json:"from_location_id"`
	ToLocationID   string         `json:"to_location_id"`
	Bidirectional  bool           `json:"bidirectional"`
	ConnectionType ConnectionType `json:"connection_type"`
	Difficulty     Difficulty     `json:"difficulty"`
	Description    string         `json:"description,omitempty"`
}

// Links reports whether the connection joins the two given locations,
// honoring directionality.
func (c MapConnection) Links(fromID, toID string) bool {
	if c.FromLocationID == fromID && c.ToLocationID == toID {
		return true
	}
	return c.Bidirectional && c.FromLocationID == toID && c.ToLocationID == fromID
}

// TravelMethodType identifies a movement mode.
type TravelMethodType string

const (
	MethodWalking   TravelMethodType = "walking"
	MethodHorseback TravelMethodType = "horseback"
	MethodCarriage  TravelMethodType = "carriage"
	MethodShip      TravelMethodType = "ship"
	MethodFlight    TravelMethodType = "flight"
)

// TravelMethod is a movement mode with its speed and how common it is in the
// setting's era.
type TravelMethod struct {
	Type         TravelMethodType `json:"type"`
	SpeedKmh     float64          `json:"speed_kmh"`
	Availability string           `json:"availability"` // e.g. "common", "noble", "rare"
}

// TravelTime is the cost of one (connection, method) pair, in minutes.
type TravelTime struct {
	ConnectionID string       `json:"connection_id"`
	TravelMethod TravelMethod `json:"travel_method"`
	BaseTime     int          `json:"base_time"`
	Conditions   string       `json:"conditions,omitempty"`
}
