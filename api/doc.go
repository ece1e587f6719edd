// Package api provides HTTP REST API handlers for the fleet reach planner.
//
// The api package implements:
//   - Session management endpoints
//   - Query updates and reports for a session's planner
//   - One-shot evaluation without a session
//   - Map listing, loading and saving
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"map_id": "..."}, optional)
//   - GET /api/sessions - List sessions (sort=created|accessed, order=asc|desc, limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Planner:
//   - GET /api/sessions/{id}/report - Destination table and map markers
//   - GET /api/sessions/{id}/report.csv - Destination table as CSV
//   - POST /api/sessions/{id}/query - Change speed, origin, energy or coordinates
//   - POST /api/sessions/{id}/reset - Restore default inputs
//   - GET /api/sessions/{id}/cost/{dst}?speed=N - Simulated trip to one location
//   - POST /api/evaluate - Query a fresh planner
//
// Maps:
//   - GET /api/maps - List maps
//   - POST /api/maps - Save a map
//   - GET /api/maps/{name} - Get a map
//
// A query update carries only the fields to change:
//
//	{
//	  "speed": 16,
//	  "mode": "planet|position",
//	  "source": 31,
//	  "energy": 50,
//	  "x": 64, "y": 8, "z": 0
//	}
//
// Error Handling:
//
// Errors are returned as JSON with a status derived from the service error:
// 404 for unknown sessions and maps, 400 for rejected inputs.
//
//	{
//	  "error": "invalid query: speed must be at least 1"
//	}
package api
