// Package service provides the business logic layer for the fleet reach planner.
//
// The service package implements:
//   - Multi-session planner management
//   - Map selection per session
//   - Query updates and report building
//   - Stateless one-shot evaluation
//
// Core Interfaces:
//
// PlannerService is the main service interface used by every transport.
// SessionManager handles session creation, retrieval, and lifecycle.
// MapManager loads and lists map catalogs.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP)
// and the engine. Each session owns its own Planner; reports are recomputed
// from the planner inputs on every call and never stored.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	mapMgr, _ := config.NewManager("maps")
//	plannerService := service.NewPlannerService(sessionMgr, mapMgr)
//
//	info, err := plannerService.CreateSession(ctx, "standard")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	speed := uint32(16)
//	report, err := plannerService.UpdateQuery(ctx, info.ID, service.QueryUpdate{Speed: &speed})
package service
