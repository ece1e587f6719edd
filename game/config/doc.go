// Package config provides map management for the fleet reach planner.
//
// The config package handles:
//   - Loading map files from JSON or YAML
//   - Map validation through the engine catalog rules
//   - Map discovery and listing
//   - Saving new maps
//
// Map Format:
//
// Maps are stored as .yaml, .yml or .json files in the maps directory. The
// file name without its extension is the map id. Each map lists locations
// with a name, a position inside the 0..128 cube, directed neighbor ids, a
// volume class and 2D map coordinates for a viewer.
//
// The 32-planet catalog compiled into the engine is always available under
// the id "standard" and cannot be overwritten.
//
// Usage:
//
//	manager, err := config.NewManager("maps")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	catalog, err := manager.Catalog("standard")
//
//	// List available maps
//	maps, err := manager.ListMaps()
package config
