// Package engine provides the rules engine behind the fleet reach planner.
//
// The engine package implements:
//   - Integer 3D geometry with floored Euclidean distance
//   - An immutable location catalog with a directed adjacency graph
//   - Reachability under an energy budget, gated by distance from the origin
//   - Turn-by-turn travel simulation under a speed cap
//   - Planet-anchored and free-position queries and their answers
//
// Core Types:
//
// Catalog holds the locations; Default returns the built-in 32-planet map.
// Query is either a *PlanetQuery or a *PositionQuery, and Catalog.Execute
// turns it into an immutable *Answer. Planner keeps the interactive inputs
// (speed and query) of one user and implements the Engine interface.
//
// Usage:
//
//	catalog := engine.Default()
//	answer := catalog.Execute(engine.NewPlanetQuery(0, 100))
//
//	for id := 0; id < catalog.Count(); id++ {
//		cost, ok, err := answer.Cost(id, 30)
//		if err != nil {
//			log.Fatal(err)
//		}
//		if ok {
//			fmt.Println(catalog.Name(id), cost.Turns, cost.Energy)
//		}
//	}
//
// Rules:
//
// A location is reachable when it can be reached over adjacency edges through
// locations that are all strictly closer to the origin than the energy
// budget. Travel cost is simulated independently: each turn the fleet either
// arrives (if the target is within speed) or advances every axis by an equal
// share of its remaining gap, and the energy spent is the sum of the step
// lengths.
package engine
