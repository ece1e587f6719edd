package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/fleetreach/game/engine"
)

// plannerServiceImpl implements the PlannerService interface
type plannerServiceImpl struct {
	sessions SessionManager
	maps     MapManager
	mu       sync.RWMutex
}

// NewPlannerService creates a new planner service instance
func NewPlannerService(sessions SessionManager, maps MapManager) PlannerService {
	return &plannerServiceImpl{
		sessions: sessions,
		maps:     maps,
	}
}

// CreateSession creates a new planner session on the given map
func (s *plannerServiceImpl) CreateSession(ctx context.Context, mapID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mapID == "" {
		mapID = s.maps.DefaultID()
	}

	catalog, err := s.loadCatalog(mapID)
	if err != nil {
		return nil, err
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", mapID, catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *plannerServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *plannerServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *plannerServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return notFound(sessionID, err)
	}
	return nil
}

// ResetSession restores the default planner inputs
func (s *plannerServiceImpl) ResetSession(ctx context.Context, sessionID string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Planner.Reset()
	s.persist(sessionID)

	return buildReport(session.ID, session.MapID, session.Planner)
}

// UpdateQuery applies an input change. A rejected update leaves the
// session untouched.
func (s *plannerServiceImpl) UpdateQuery(ctx context.Context, sessionID string, update QueryUpdate) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	prev := session.Planner.State()
	if err := applyUpdate(session.Planner, update); err != nil {
		if restoreErr := session.Planner.SetState(prev); restoreErr != nil {
			return nil, fmt.Errorf("failed to restore session %s: %w", sessionID, restoreErr)
		}
		return nil, err
	}
	s.persist(sessionID)

	return buildReport(session.ID, session.MapID, session.Planner)
}

// GetReport builds the current report of a session
func (s *plannerServiceImpl) GetReport(ctx context.Context, sessionID string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return buildReport(session.ID, session.MapID, session.Planner)
}

// GetCost simulates the trip from the session's origin to one location.
// A zero speed uses the session's selected speed.
func (s *plannerServiceImpl) GetCost(ctx context.Context, sessionID string, destination int, speed uint32) (*CostInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	planner := session.Planner
	catalog := planner.Catalog()
	if !catalog.Valid(destination) {
		return nil, fmt.Errorf("%w: destination %d out of range [0, %d)", ErrInvalidQuery, destination, catalog.Count())
	}
	if speed == 0 {
		speed = planner.Speed()
	}

	answer := planner.Answer()
	info := &CostInfo{
		SessionID:   session.ID,
		Destination: destination,
		Name:        catalog.Name(destination),
		Speed:       speed,
		Distance:    engine.Distance(answer.Source(), catalog.Position(destination)),
	}

	cost, ok, err := answer.Cost(destination, speed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if ok {
		info.Reachable = true
		info.Turns = cost.Turns
		info.Energy = cost.Energy
	}

	return info, nil
}

// Evaluate runs a one-shot query on a fresh planner without creating a session
func (s *plannerServiceImpl) Evaluate(ctx context.Context, req EvaluateRequest) (*Report, error) {
	mapID := req.MapID
	if mapID == "" {
		mapID = s.maps.DefaultID()
	}

	catalog, err := s.loadCatalog(mapID)
	if err != nil {
		return nil, err
	}

	planner, err := engine.NewPlanner(catalog)
	if err != nil {
		return nil, err
	}
	if err := applyUpdate(planner, req.QueryUpdate); err != nil {
		return nil, err
	}

	return buildReport("", mapID, planner)
}

// ListMaps returns available maps
func (s *plannerServiceImpl) ListMaps(ctx context.Context) ([]*MapInfo, error) {
	return s.maps.ListMaps()
}

// LoadMap loads a map configuration
func (s *plannerServiceImpl) LoadMap(ctx context.Context, mapID string) (*engine.MapConfig, error) {
	return s.maps.LoadMap(mapID)
}

// SaveMap validates and stores a map configuration
func (s *plannerServiceImpl) SaveMap(ctx context.Context, mapID string, config *engine.MapConfig) error {
	return s.maps.SaveMap(mapID, config)
}

// getSession looks up a session and marks it accessed. Callers must hold
// s.mu for writing since the access time is mutated.
func (s *plannerServiceImpl) getSession(sessionID string) (*Session, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, notFound(sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return session, nil
}

func (s *plannerServiceImpl) persist(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s: %v\n", sessionID, err)
	}
}

// loadCatalog resolves a map id, listing the alternatives when it is unknown
func (s *plannerServiceImpl) loadCatalog(mapID string) (*engine.Catalog, error) {
	catalog, err := s.maps.Catalog(mapID)
	if err == nil {
		return catalog, nil
	}

	if errors.Is(err, ErrMapNotFound) {
		available, listErr := s.maps.ListMaps()
		if listErr == nil && len(available) > 0 {
			var ids []string
			for _, m := range available {
				ids = append(ids, m.MapID)
			}
			return nil, fmt.Errorf("%w: '%s'. Available maps: %v", ErrMapNotFound, mapID, ids)
		}
		return nil, fmt.Errorf("%w: '%s'. Use /api/maps to list available maps", ErrMapNotFound, mapID)
	}
	return nil, fmt.Errorf("failed to load map %s: %w", mapID, err)
}

func notFound(sessionID string, err error) error {
	if errors.Is(err, ErrSessionNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrSessionNotFound, sessionID, err)
}

// applyUpdate feeds an update through the planner's input methods
func applyUpdate(planner engine.Engine, update QueryUpdate) error {
	if update.Speed != nil {
		if err := planner.SetSpeed(*update.Speed); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	}

	if update.Mode != nil {
		switch *update.Mode {
		case engine.ModePosition:
			planner.SelectPosition()
		case engine.ModePlanet:
			if _, ok := planner.Query().(*engine.PositionQuery); ok && update.Source == nil {
				if err := planner.SelectPlanet(engine.DefaultSourceID); err != nil {
					return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
				}
			}
		default:
			return fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, *update.Mode)
		}
	}

	if update.Source != nil {
		if err := planner.SelectPlanet(*update.Source); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	}

	if update.Energy != nil {
		if err := planner.SetEnergy(*update.Energy); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	}

	for _, c := range []struct {
		axis  string
		value *uint32
	}{{"x", update.X}, {"y", update.Y}, {"z", update.Z}} {
		if c.value == nil {
			continue
		}
		if err := planner.SetCoordinate(c.axis, *c.value); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
	}

	return nil
}

func sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		MapID:          session.MapID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		State:          session.Planner.State(),
	}
}

// buildReport recomputes the answer of a planner
func buildReport(sessionID, mapID string, planner engine.Engine) (*Report, error) {
	rows, err := planner.Table()
	if err != nil {
		return nil, err
	}
	markers, err := planner.Markers()
	if err != nil {
		return nil, err
	}

	catalog := planner.Catalog()
	answer := planner.Answer()
	report := &Report{
		SessionID:      sessionID,
		MapID:          mapID,
		State:          planner.State(),
		Source:         answer.Source(),
		ReachableCount: answer.ReachableCount(),
		Rows:           rows,
		Markers:        markers,
	}

	switch q := planner.Query().(type) {
	case *engine.PlanetQuery:
		report.SourceName = catalog.Name(q.Source())
	case *engine.PositionQuery:
		id, distance := engine.NearestLocation(catalog, q.Source())
		report.Nearest = &NearestInfo{ID: id, Name: catalog.Name(id), Distance: distance}
	}

	return report, nil
}
