// Package session provides session management for the fleet reach planner.
//
// A session is one user's planner: a map id plus the selected speed and
// query. The manager keeps sessions in memory and can mirror them to disk
// through a SessionPersistence. Only inputs are persisted; every report is
// recomputed from them.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from crypto/rand. Lookups are
// case-insensitive and generated IDs are retried on collision.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", mapManager)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
//
//	sess, err := manager.Create("", "standard", engine.Default())
package session
