package service

import (
	"context"
	"time"

	"github.com/wricardo/fleetreach/game/engine"
)

// PlannerService defines all planner operations
type PlannerService interface {
	// Session Management
	CreateSession(ctx context.Context, mapID string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ResetSession(ctx context.Context, sessionID string) (*Report, error)

	// Queries
	UpdateQuery(ctx context.Context, sessionID string, update QueryUpdate) (*Report, error)
	GetReport(ctx context.Context, sessionID string) (*Report, error)
	GetCost(ctx context.Context, sessionID string, destination int, speed uint32) (*CostInfo, error)
	Evaluate(ctx context.Context, req EvaluateRequest) (*Report, error)

	// Maps
	ListMaps(ctx context.Context) ([]*MapInfo, error)
	LoadMap(ctx context.Context, mapID string) (*engine.MapConfig, error)
	SaveMap(ctx context.Context, mapID string, config *engine.MapConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, mapID string, catalog *engine.Catalog) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id, mapID string, catalog *engine.Catalog) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles map loading
type MapManager interface {
	LoadMap(id string) (*engine.MapConfig, error)
	Catalog(id string) (*engine.Catalog, error)
	ListMaps() ([]*MapInfo, error)
	DefaultID() string
	SaveMap(id string, config *engine.MapConfig) error
}

// Session represents one user's planner
type Session struct {
	ID             string
	MapID          string
	Planner        *engine.Planner
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
