package engine

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Catalog is an immutable set of locations and their directed adjacency.
// All accessors panic on an index outside [0, Count).
type Catalog struct {
	name      string
	locations []Location
}

// NewCatalog validates locations and builds a catalog from a private copy.
func NewCatalog(name string, locations []Location) (*Catalog, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("%w: catalog %q has no locations", ErrInvalidCatalog, name)
	}

	count := len(locations)
	copied := make([]Location, count)
	for id, loc := range locations {
		if loc.Name == "" {
			return nil, fmt.Errorf("%w: location %d has no name", ErrInvalidCatalog, id)
		}
		seen := make(map[int]bool, len(loc.Neighbors))
		for _, dst := range loc.Neighbors {
			if dst < 0 || dst >= count {
				return nil, fmt.Errorf("%w: location %d (%s) lists neighbor %d outside [0, %d)",
					ErrInvalidCatalog, id, loc.Name, dst, count)
			}
			if dst == id {
				return nil, fmt.Errorf("%w: location %d (%s) lists itself as a neighbor", ErrInvalidCatalog, id, loc.Name)
			}
			if seen[dst] {
				return nil, fmt.Errorf("%w: location %d (%s) lists neighbor %d twice", ErrInvalidCatalog, id, loc.Name, dst)
			}
			seen[dst] = true
		}
		copied[id] = loc
		copied[id].Neighbors = slices.Clone(loc.Neighbors)
	}

	return &Catalog{name: name, locations: copied}, nil
}

// MustCatalog is like NewCatalog but panics on invalid data
func MustCatalog(name string, locations []Location) *Catalog {
	c, err := NewCatalog(name, locations)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultCatalog = MustCatalog("standard", defaultLocations())

// Default returns the built-in 32-location catalog
func Default() *Catalog {
	return defaultCatalog
}

// CatalogName returns the identifier the catalog was built with
func (c *Catalog) CatalogName() string {
	return c.name
}

// Count returns the number of locations
func (c *Catalog) Count() int {
	return len(c.locations)
}

// Name returns the display name of a location
func (c *Catalog) Name(id int) string {
	c.mustID(id)
	return c.locations[id].Name
}

// Position returns the coordinates of a location
func (c *Catalog) Position(id int) Vec3 {
	c.mustID(id)
	return c.locations[id].Position
}

// Neighbors returns a copy of the outgoing adjacency list of a location
func (c *Catalog) Neighbors(id int) []int {
	c.mustID(id)
	return slices.Clone(c.locations[id].Neighbors)
}

// Location returns a copy of a location record
func (c *Catalog) Location(id int) Location {
	c.mustID(id)
	loc := c.locations[id]
	loc.Neighbors = slices.Clone(loc.Neighbors)
	return loc
}

// Locations returns copies of every location in index order
func (c *Catalog) Locations() []Location {
	result := make([]Location, len(c.locations))
	for id := range c.locations {
		result[id] = c.Location(id)
	}
	return result
}

// Valid reports whether id indexes a location
func (c *Catalog) Valid(id int) bool {
	return id >= 0 && id < len(c.locations)
}

// DistanceBetween returns the straight-line distance between two locations.
// Adjacency is not consulted.
func (c *Catalog) DistanceBetween(id1, id2 int) uint64 {
	return Distance(c.Position(id1), c.Position(id2))
}

// AsymmetricEdges lists edges A->B whose reverse B->A is not authored
func (c *Catalog) AsymmetricEdges() []Edge {
	var edges []Edge
	for from, loc := range c.locations {
		for _, to := range loc.Neighbors {
			if !slices.Contains(c.locations[to].Neighbors, from) {
				edges = append(edges, Edge{From: from, To: to})
			}
		}
	}
	return edges
}

// Edges lists every authored edge in index order
func (c *Catalog) Edges() []Edge {
	var edges []Edge
	for from, loc := range c.locations {
		for _, to := range loc.Neighbors {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

func (c *Catalog) mustID(id int) {
	if !c.Valid(id) {
		panic(fmt.Sprintf("engine: location index %d out of range [0, %d) in catalog %q", id, len(c.locations), c.name))
	}
}
