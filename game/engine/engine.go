package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLocation      = errors.New("invalid location")
	ErrInvalidSpeed         = errors.New("invalid speed")
	ErrEnergyOutOfRange     = errors.New("energy out of range")
	ErrCoordinateOutOfRange = errors.New("coordinate out of range")
	ErrInvalidAxis          = errors.New("invalid axis")
	ErrInvalidState         = errors.New("invalid planner state")
)

// Engine provides the planner operations used by sessions
type Engine interface {
	// State management
	State() PlannerState
	SetState(state PlannerState) error
	Reset()

	// Inputs
	Speed() uint32
	SetSpeed(speed uint32) error
	Query() Query
	SelectPlanet(id int) error
	SelectPosition()
	SetEnergy(energy uint32) error
	SetCoordinate(axis string, value uint32) error

	// Results
	SourcePosition() Vec3
	Answer() *Answer
	Table() ([]Row, error)
	Markers() ([]Marker, error)

	// Catalog
	Catalog() *Catalog
}

var _ Engine = (*Planner)(nil)

// Planner holds the interactive inputs of one user: a speed and a query.
// It is not safe for concurrent mutation.
type Planner struct {
	catalog *Catalog
	speed   uint32
	query   Query
}

// NewPlanner creates a planner over the given catalog with default inputs
func NewPlanner(catalog *Catalog) (*Planner, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	p := &Planner{catalog: catalog}
	p.Reset()
	return p, nil
}

// NewPlannerWithDefaults creates a planner over the built-in catalog
func NewPlannerWithDefaults() *Planner {
	p, _ := NewPlanner(Default())
	return p
}

// Reset restores the default speed and query
func (p *Planner) Reset() {
	p.speed = DefaultSpeed
	p.query = DefaultPlanetQuery()
}

// Catalog returns the catalog the planner queries
func (p *Planner) Catalog() *Catalog {
	return p.catalog
}

// Speed returns the selected speed
func (p *Planner) Speed() uint32 {
	return p.speed
}

// SetSpeed selects a new speed
func (p *Planner) SetSpeed(speed uint32) error {
	if speed == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, ErrZeroSpeed)
	}
	p.speed = speed
	return nil
}

// Query returns the current query
func (p *Planner) Query() Query {
	return p.query
}

// SelectPlanet moves the origin to a location. A position query is
// replaced by a planet query with the maximum energy.
func (p *Planner) SelectPlanet(id int) error {
	if !p.catalog.Valid(id) {
		return fmt.Errorf("%w: %d (catalog has %d locations)", ErrInvalidLocation, id, p.catalog.Count())
	}

	switch q := p.query.(type) {
	case *PlanetQuery:
		q.SetSource(id)
	case *PositionQuery:
		p.query = NewPlanetQuery(id, MaxEnergy)
	}
	return nil
}

// SelectPosition switches to a free-position query at the default coordinate.
// It does nothing if a position query is already active.
func (p *Planner) SelectPosition() {
	if _, ok := p.query.(*PlanetQuery); ok {
		p.query = DefaultPositionQuery()
	}
}

// SetEnergy updates the budget of a planet query; no-op for position queries
func (p *Planner) SetEnergy(energy uint32) error {
	if energy > MaxEnergy {
		return fmt.Errorf("%w: %d exceeds %d", ErrEnergyOutOfRange, energy, MaxEnergy)
	}
	if q, ok := p.query.(*PlanetQuery); ok {
		q.SetEnergy(energy)
	}
	return nil
}

// SetCoordinate updates one axis ("x", "y" or "z") of a position query;
// no-op for planet queries
func (p *Planner) SetCoordinate(axis string, value uint32) error {
	if value > MaxCoordinate {
		return fmt.Errorf("%w: %s=%d exceeds %d", ErrCoordinateOutOfRange, axis, value, MaxCoordinate)
	}

	var set func(*PositionQuery, uint32)
	switch axis {
	case "x":
		set = (*PositionQuery).SetSourceX
	case "y":
		set = (*PositionQuery).SetSourceY
	case "z":
		set = (*PositionQuery).SetSourceZ
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAxis, axis)
	}

	if q, ok := p.query.(*PositionQuery); ok {
		set(q, value)
	}
	return nil
}

// SourcePosition returns the coordinate the current query starts from
func (p *Planner) SourcePosition() Vec3 {
	return p.catalog.SourcePosition(p.query)
}

// Answer executes the current query
func (p *Planner) Answer() *Answer {
	return p.catalog.Execute(p.query)
}

// IsSource reports whether id is the origin planet of a planet query
func (p *Planner) IsSource(id int) bool {
	q, ok := p.query.(*PlanetQuery)
	return ok && q.Source() == id
}

// Table lists every reachable destination other than the origin planet with
// its distance and simulated cost at the selected speed.
func (p *Planner) Table() ([]Row, error) {
	ans := p.Answer()
	src := ans.Source()

	rows := []Row{}
	for dst := 0; dst < p.catalog.Count(); dst++ {
		if p.IsSource(dst) {
			continue
		}
		cost, ok, err := ans.Cost(dst, p.speed)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rows = append(rows, Row{
			ID:       dst,
			Name:     p.catalog.Name(dst),
			Distance: Distance(src, p.catalog.Position(dst)),
			Turns:    cost.Turns,
			Energy:   cost.Energy,
		})
	}
	return rows, nil
}

// Markers describes every location for a map view
func (p *Planner) Markers() ([]Marker, error) {
	ans := p.Answer()

	markers := make([]Marker, 0, p.catalog.Count())
	for id := 0; id < p.catalog.Count(); id++ {
		loc := p.catalog.Location(id)
		m := Marker{
			ID:     id,
			Name:   loc.Name,
			Volume: loc.Volume,
			MapX:   loc.MapX,
			MapY:   loc.MapY,
		}

		switch {
		case p.IsSource(id):
			m.Status = StatusSource
		case ans.IsReachable(id):
			m.Status = StatusReachable
			cost, _, err := ans.Cost(id, p.speed)
			if err != nil {
				return nil, err
			}
			turns := cost.Turns
			m.Turns = &turns
		default:
			m.Status = StatusUnreachable
		}

		markers = append(markers, m)
	}
	return markers, nil
}

// State captures the planner inputs
func (p *Planner) State() PlannerState {
	state := PlannerState{Speed: p.speed}
	switch q := p.query.(type) {
	case *PlanetQuery:
		state.Mode = ModePlanet
		state.Source = q.Source()
		state.Energy = q.Energy()
	case *PositionQuery:
		state.Mode = ModePosition
		state.Position = q.Source()
	}
	return state
}

// SetState restores planner inputs (used for persistence loading)
func (p *Planner) SetState(state PlannerState) error {
	if state.Speed == 0 {
		return fmt.Errorf("%w: speed must be at least 1", ErrInvalidState)
	}

	switch state.Mode {
	case ModePlanet:
		if !p.catalog.Valid(state.Source) {
			return fmt.Errorf("%w: source %d out of range", ErrInvalidState, state.Source)
		}
		if state.Energy > MaxEnergy {
			return fmt.Errorf("%w: energy %d above %d", ErrInvalidState, state.Energy, MaxEnergy)
		}
		p.query = NewPlanetQuery(state.Source, state.Energy)
	case ModePosition:
		pos := state.Position
		if pos.X > MaxCoordinate || pos.Y > MaxCoordinate || pos.Z > MaxCoordinate {
			return fmt.Errorf("%w: position %s outside [0, %d]", ErrInvalidState, pos, MaxCoordinate)
		}
		p.query = NewPositionQuery(pos)
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidState, state.Mode)
	}

	p.speed = state.Speed
	return nil
}
