// Package mcp provides a Model Context Protocol server for the fleet reach planner.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions that proxy to the REST API
//   - Text formatting of reports and trip costs
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - create_session: Create a planner session, optionally on another map
//   - list_sessions: List all active sessions
//   - reset_session: Restore default inputs
//   - get_report: Reachable destinations with turns and energy
//   - update_query: Change speed, origin, energy or coordinates
//   - travel_cost: Simulated trip to one destination
//   - evaluate: One-shot query without a session
//   - list_maps: List available maps
//   - planner_instructions: Rules of reachability and movement
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Direct stdio communication for local MCP clients
//   - HTTP: HTTP endpoint for remote MCP integration
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode: pass each JSON-RPC request body to the server
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
