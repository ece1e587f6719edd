package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/fleetreach/game/engine"
	"github.com/wricardo/fleetreach/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Fleet Reach Planner",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Fleet Reach Planner - MCP Interface

This is a thin client that proxies all requests to the REST API server.

PURPOSE:
Answer which of the 32 locations a fleet can be ordered to, and what each trip
costs in turns and energy at a chosen speed.

AVAILABLE TOOLS:
- create_session: Create a new planner session (optionally on another map)
- list_sessions: List all active sessions
- get_report: Current inputs, reachable destinations and their costs
- update_query: Change speed, origin planet, energy or free coordinates
- reset_session: Restore default inputs (planet 0, energy 100, speed 30)
- travel_cost: Simulated trip cost to one destination at any speed
- evaluate: One-shot query without a session
- list_maps: List available maps
- planner_instructions: Rules of reachability and movement

NOTE: The 'intent' parameter on update_query serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// queryProperties describes the inputs shared by update_query and evaluate
func queryProperties() map[string]interface{} {
	return map[string]interface{}{
		"speed": map[string]interface{}{
			"type":        "integer",
			"minimum":     1,
			"description": "Fleet speed (offered speeds are 30, 20, 16, 12 and 10)",
		},
		"mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{string(engine.ModePlanet), string(engine.ModePosition)},
			"description": "Anchor the origin at a planet or at free coordinates",
		},
		"source": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"description": "Origin planet id (switches to planet mode)",
		},
		"energy": map[string]interface{}{
			"type":        "integer",
			"minimum":     0,
			"maximum":     engine.MaxEnergy,
			"description": "Energy budget of a planet query",
		},
		"x": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": engine.MaxCoordinate, "description": "Origin x (position mode)"},
		"y": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": engine.MaxCoordinate, "description": "Origin y (position mode)"},
		"z": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": engine.MaxCoordinate, "description": "Origin z (position mode)"},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new planner session with optional map selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_id": map[string]interface{}{
					"type":        "string",
					"description": "Map to plan on (optional, defaults to the server's default map)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active planner sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_session",
		Description: "Restore a session's default inputs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleResetSession)

	// Queries
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_report",
		Description: "Get the reachable destinations of a session with turns and energy per trip",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetReport)

	updateProps := queryProperties()
	updateProps["session_id"] = sessionIDProperty()
	updateProps["intent"] = map[string]interface{}{
		"type":        "string",
		"description": "Brief explanation of the intent behind this change (serves as a rubber duck to help explain your reasoning)",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "update_query",
		Description: "Change the inputs of a session; only the given fields change",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: updateProps,
			Required:   []string{"session_id"},
		},
	}, c.handleUpdateQuery)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "travel_cost",
		Description: "Simulate the trip from a session's origin to one destination",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"destination": map[string]interface{}{
					"type":        "integer",
					"minimum":     0,
					"description": "Destination location id",
				},
				"speed": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"description": "Speed to simulate (optional, defaults to the session speed)",
				},
			},
			Required: []string{"session_id", "destination"},
		},
	}, c.handleTravelCost)

	evalProps := queryProperties()
	evalProps["map_id"] = map[string]interface{}{
		"type":        "string",
		"description": "Map to evaluate on (optional)",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "evaluate",
		Description: "Run a one-shot query on fresh default inputs without creating a session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: evalProps,
		},
	}, c.handleEvaluate)

	// Maps and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "planner_instructions",
		Description: "Get the rules of reachability and movement",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handlePlannerInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	endpoint := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool arguments as a map, empty when absent
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

// intArg reads a JSON number argument
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// queryBody copies the query fields present in args into a request body
func queryBody(args map[string]interface{}) map[string]interface{} {
	body := map[string]interface{}{}
	for _, key := range []string{"speed", "source", "energy", "x", "y", "z"} {
		if v, ok := intArg(args, key); ok {
			body[key] = v
		}
	}
	if mode, ok := args["mode"].(string); ok && mode != "" {
		body["mode"] = mode
	}
	return body
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	mapID, _ := args["map_id"].(string)

	body := map[string]string{}
	if mapID != "" {
		body["map_id"] = mapID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nMap: %s\n", session.ID, session.MapID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Map: %s, %s, Created: %s)\n",
			s.ID, s.MapID, formatState(s.State), s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleResetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string          `json:"message"`
		Report  *service.Report `json:"report"`
	}
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", url.PathEscape(sessionID)), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatReport(response.Report)), nil
}

func (c *Client) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var report service.Report
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/report", url.PathEscape(sessionID)), nil, &report)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReport(&report)), nil
}

func (c *Client) handleUpdateQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	body := queryBody(args)
	if len(body) == 0 {
		return mcp.NewToolResultError("nothing to update: give at least one of speed, mode, source, energy, x, y, z"), nil
	}

	var report service.Report
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/query", url.PathEscape(sessionID)), body, &report)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReport(&report)), nil
}

func (c *Client) handleTravelCost(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	dst, ok := intArg(args, "destination")
	if !ok || dst < 0 {
		return mcp.NewToolResultError("destination must be a location id"), nil
	}

	path := fmt.Sprintf("/api/sessions/%s/cost/%d", url.PathEscape(sessionID), dst)
	if speed, ok := intArg(args, "speed"); ok {
		path += fmt.Sprintf("?speed=%d", speed)
	}

	var cost service.CostInfo
	if err := c.apiCall("GET", path, nil, &cost); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCost(&cost)), nil
}

func (c *Client) handleEvaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := queryBody(args)
	if mapID, ok := args["map_id"].(string); ok && mapID != "" {
		body["map_id"] = mapID
	}

	var report service.Report
	if err := c.apiCall("POST", "/api/evaluate", body, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReport(&report)), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []service.MapInfo
	err := c.apiCall("GET", "/api/maps", nil, &maps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Maps:\n\n"
	for _, m := range maps {
		kind := m.Filename
		if m.Builtin {
			kind = "built-in"
		}
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Locations: %d\n\n",
			m.MapID, kind, m.Description, m.Locations)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlannerInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Fleet Reach Planner - Instructions

WHAT IT ANSWERS:
Given an origin and an energy budget, which locations can a fleet be ordered
to, and how many turns and how much energy each trip costs at a given speed.

COORDINATES:
• Space is a cube of integer coordinates 0..128 on each axis
• Distance is Euclidean, rounded down to an integer

REACHABILITY (planet mode):
• Start at the origin planet and follow its route links
• A linked location is admitted only when energy > distance(origin, location)
• The distance is always measured from the ORIGIN, never from the hop before
• So energy acts as a radius around the origin, not as fuel spent along a path
• Locations beyond the radius can still block a route to closer ones
• Energy is between 0 and 100; at energy 0 only the origin itself is reachable

FREE POSITION (position mode):
• The origin is any coordinate; every location is reported as reachable
• The report names the nearest location to the origin

TRAVEL COST:
• The fleet moves toward the destination in turns of at most 'speed' units
• Each turn stops on an integer point and spends the floored distance moved
• Turns is never below distance / speed rounded up
• Energy spent can be slightly below the straight-line distance
• Higher speed never needs more turns

WORKFLOW:
1. create_session (optionally with a map_id from list_maps)
2. update_query with source and energy, or mode=position with x, y, z
3. get_report for every reachable destination, or travel_cost for one
4. evaluate answers what-if questions without touching a session

DEFAULTS:
Planet 0, energy 100, speed 30. Offered speeds: 30, 20, 16, 12, 10.`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatState(state engine.PlannerState) string {
	if state.Mode == engine.ModePosition {
		return fmt.Sprintf("Speed: %d | Position: (%d,%d,%d)",
			state.Speed, state.Position.X, state.Position.Y, state.Position.Z)
	}
	return fmt.Sprintf("Speed: %d | Planet: %d | Energy: %d", state.Speed, state.Source, state.Energy)
}

func formatReport(report *service.Report) string {
	if report == nil {
		return "No report available"
	}

	var result strings.Builder

	if report.SessionID != "" {
		result.WriteString(fmt.Sprintf("Session: %s | ", report.SessionID))
	}
	result.WriteString(fmt.Sprintf("Map: %s\n", report.MapID))
	result.WriteString(formatState(report.State) + "\n")

	origin := fmt.Sprintf("Origin: (%d,%d,%d)", report.Source.X, report.Source.Y, report.Source.Z)
	if report.SourceName != "" {
		origin += " " + report.SourceName
	}
	result.WriteString(origin + "\n")
	if report.Nearest != nil {
		result.WriteString(fmt.Sprintf("Nearest: %d %s (distance %d)\n",
			report.Nearest.ID, report.Nearest.Name, report.Nearest.Distance))
	}
	result.WriteString(fmt.Sprintf("Reachable: %d\n\n", report.ReachableCount))

	if len(report.Rows) == 0 {
		result.WriteString("No destinations reachable")
		return result.String()
	}

	result.WriteString("ID | Name | Distance | Turns | Energy\n")
	for _, row := range report.Rows {
		result.WriteString(fmt.Sprintf("%2d | %s | %d | %d | %d\n",
			row.ID, row.Name, row.Distance, row.Turns, row.Energy))
	}

	return result.String()
}

func formatCost(cost *service.CostInfo) string {
	if !cost.Reachable {
		return fmt.Sprintf("✗ %d %s is not reachable (distance %d)",
			cost.Destination, cost.Name, cost.Distance)
	}
	return fmt.Sprintf("✓ %d %s at speed %d: %d turns, %d energy (distance %d)",
		cost.Destination, cost.Name, cost.Speed, cost.Turns, cost.Energy, cost.Distance)
}
