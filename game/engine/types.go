package engine

// Volume is the size class of a location, used by map renderers
type Volume string

const (
	Large  Volume = "large"
	Medium Volume = "medium"
	Small  Volume = "small"
	Tiny   Volume = "tiny"
)

// MarkerStatus classifies a location relative to the current answer
type MarkerStatus string

const (
	StatusSource      MarkerStatus = "source"
	StatusReachable   MarkerStatus = "reachable"
	StatusUnreachable MarkerStatus = "unreachable"
)

const (
	// PlanetCount is the number of locations in the built-in catalog
	PlanetCount = 32

	// Planner input bounds
	DefaultEnergy    uint32 = 100
	MaxEnergy        uint32 = 100
	MaxCoordinate    uint32 = 128
	DefaultSpeed     uint32 = 30
	DefaultSourceID         = 0
	UnreachableEnergy       = ^uint64(0)
)

// Speeds lists the speed settings offered to players, fastest first
var Speeds = []uint32{30, 20, 16, 12, 10}

// DefaultPosition is the starting coordinate of a free-position query
var DefaultPosition = Vec3{X: 8, Y: 8, Z: 8}

// Location is a single named point of interest in a catalog
type Location struct {
	Name      string `json:"name" yaml:"name"`
	Position  Vec3   `json:"position" yaml:"position"`
	Neighbors []int  `json:"neighbors" yaml:"neighbors"`
	Volume    Volume `json:"volume,omitempty" yaml:"volume,omitempty"`
	MapX      int    `json:"map_x" yaml:"map_x"`
	MapY      int    `json:"map_y" yaml:"map_y"`
}

// Edge is a directed adjacency entry
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Cost is the simulated price of a trip
type Cost struct {
	Turns  uint64 `json:"turns"`
	Energy uint64 `json:"energy"`
}

// Row is one line of the destination table
type Row struct {
	ID       int    `json:"id" csv:"id"`
	Name     string `json:"name" csv:"name"`
	Distance uint64 `json:"distance" csv:"distance"`
	Turns    uint64 `json:"turns" csv:"turns"`
	Energy   uint64 `json:"energy" csv:"energy"`
}

// Marker describes how a location should be drawn on the map
type Marker struct {
	ID     int          `json:"id"`
	Name   string       `json:"name"`
	Status MarkerStatus `json:"status"`
	Volume Volume       `json:"volume"`
	MapX   int          `json:"map_x"`
	MapY   int          `json:"map_y"`
	Turns  *uint64      `json:"turns,omitempty"` // Only for reachable destinations
}

// QueryMode names the variant of a query in serialised form
type QueryMode string

const (
	ModePlanet   QueryMode = "planet"
	ModePosition QueryMode = "position"
)

// PlannerState is the serialisable input state of a planner.
// Computed answers are never part of it.
type PlannerState struct {
	Speed    uint32    `json:"speed"`
	Mode     QueryMode `json:"mode"`
	Source   int       `json:"source"`
	Energy   uint32    `json:"energy"`
	Position Vec3      `json:"position"`
}
