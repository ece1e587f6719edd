package service

import (
	"time"

	"github.com/wricardo/fleetreach/game/engine"
)

// SessionInfo provides information about a planner session
type SessionInfo struct {
	ID             string              `json:"id"`
	MapID          string              `json:"map_id"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	State          engine.PlannerState `json:"state"`
}

// Report is the full view of a planner: its inputs, the reachable table and
// one marker per location
type Report struct {
	SessionID      string              `json:"session_id,omitempty"`
	MapID          string              `json:"map_id"`
	State          engine.PlannerState `json:"state"`
	Source         engine.Vec3         `json:"source"`
	SourceName     string              `json:"source_name,omitempty"`
	Nearest        *NearestInfo        `json:"nearest,omitempty"`
	ReachableCount int                 `json:"reachable_count"`
	Rows           []engine.Row        `json:"rows"`
	Markers        []engine.Marker     `json:"markers"`
}

// NearestInfo names the closest location to a free origin
type NearestInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Distance uint64 `json:"distance"`
}

// QueryUpdate changes planner inputs. Nil fields are left alone; fields are
// applied in declaration order.
type QueryUpdate struct {
	Speed  *uint32           `json:"speed,omitempty"`
	Mode   *engine.QueryMode `json:"mode,omitempty"`
	Source *int              `json:"source,omitempty"`
	Energy *uint32           `json:"energy,omitempty"`
	X      *uint32           `json:"x,omitempty"`
	Y      *uint32           `json:"y,omitempty"`
	Z      *uint32           `json:"z,omitempty"`
}

// EvaluateRequest is a one-shot query against a fresh default planner
type EvaluateRequest struct {
	MapID string `json:"map_id,omitempty"`
	QueryUpdate
}

// CostInfo is the simulated trip from a session's origin to one location
type CostInfo struct {
	SessionID   string `json:"session_id"`
	Destination int    `json:"destination"`
	Name        string `json:"name"`
	Speed       uint32 `json:"speed"`
	Reachable   bool   `json:"reachable"`
	Distance    uint64 `json:"distance"`
	Turns       uint64 `json:"turns,omitempty"`
	Energy      uint64 `json:"energy,omitempty"`
}

// MapInfo provides information about a map
type MapInfo struct {
	Filename    string `json:"filename,omitempty"`
	MapID       string `json:"map_id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Locations   int    `json:"locations"`
	Builtin     bool   `json:"builtin,omitempty"`
}
