package engine

import "slices"

// Query asks what a fleet can reach from some origin. It is implemented only
// by *PlanetQuery and *PositionQuery.
type Query interface {
	Mode() QueryMode
	query()
}

// PlanetQuery anchors the origin at a catalog location with an energy budget
type PlanetQuery struct {
	src    int
	energy uint32
}

// NewPlanetQuery creates a planet-anchored query
func NewPlanetQuery(src int, energy uint32) *PlanetQuery {
	return &PlanetQuery{src: src, energy: energy}
}

// DefaultPlanetQuery starts at location 0 with the default energy
func DefaultPlanetQuery() *PlanetQuery {
	return NewPlanetQuery(DefaultSourceID, DefaultEnergy)
}

func (q *PlanetQuery) Mode() QueryMode { return ModePlanet }
func (q *PlanetQuery) query()          {}

func (q *PlanetQuery) Source() int             { return q.src }
func (q *PlanetQuery) SetSource(src int)       { q.src = src }
func (q *PlanetQuery) Energy() uint32          { return q.energy }
func (q *PlanetQuery) SetEnergy(energy uint32) { q.energy = energy }

// PositionQuery puts the origin at an arbitrary coordinate
type PositionQuery struct {
	src Vec3
}

// NewPositionQuery creates a free-position query
func NewPositionQuery(src Vec3) *PositionQuery {
	return &PositionQuery{src: src}
}

// DefaultPositionQuery starts at DefaultPosition
func DefaultPositionQuery() *PositionQuery {
	return NewPositionQuery(DefaultPosition)
}

func (q *PositionQuery) Mode() QueryMode { return ModePosition }
func (q *PositionQuery) query()          {}

func (q *PositionQuery) Source() Vec3       { return q.src }
func (q *PositionQuery) SetSourceX(x uint32) { q.src.X = x }
func (q *PositionQuery) SetSourceY(y uint32) { q.src.Y = y }
func (q *PositionQuery) SetSourceZ(z uint32) { q.src.Z = z }

// SourcePosition resolves the origin coordinate of a query
func (c *Catalog) SourcePosition(q Query) Vec3 {
	switch q := q.(type) {
	case *PlanetQuery:
		return c.Position(q.src)
	case *PositionQuery:
		return q.src
	default:
		panic("engine: unknown query type")
	}
}

// Execute evaluates a query against the catalog
func (c *Catalog) Execute(q Query) *Answer {
	var (
		src        Vec3
		reachables []bool
	)

	switch q := q.(type) {
	case *PlanetQuery:
		src = c.Position(q.src)
		reachables = c.ReachablePlanets(q.src, q.energy)
	case *PositionQuery:
		// A free origin is not bound to the graph
		src = q.src
		reachables = make([]bool, c.Count())
		for i := range reachables {
			reachables[i] = true
		}
	default:
		panic("engine: unknown query type")
	}

	return &Answer{catalog: c, src: src, reachables: reachables}
}

// Answer is the immutable result of executing a query
type Answer struct {
	catalog    *Catalog
	src        Vec3
	reachables []bool
}

// Source returns the resolved origin coordinate
func (a *Answer) Source() Vec3 {
	return a.src
}

// IsReachable reports whether location id was admitted
func (a *Answer) IsReachable(id int) bool {
	a.catalog.mustID(id)
	return a.reachables[id]
}

// Reachables returns a copy of the reachability flags
func (a *Answer) Reachables() []bool {
	return slices.Clone(a.reachables)
}

// ReachableCount returns how many locations were admitted
func (a *Answer) ReachableCount() int {
	n := 0
	for _, ok := range a.reachables {
		if ok {
			n++
		}
	}
	return n
}

// Cost simulates the trip from the answer's origin to location id.
// ok is false when id is not reachable; the cost is recomputed every call.
func (a *Answer) Cost(id int, speed uint32) (cost Cost, ok bool, err error) {
	if !a.IsReachable(id) {
		return Cost{}, false, nil
	}
	cost, err = ActualTurnsAndEnergy(a.src, a.catalog.Position(id), speed)
	if err != nil {
		return Cost{}, false, err
	}
	return cost, true, nil
}
