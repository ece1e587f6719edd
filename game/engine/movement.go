package engine

import (
	"errors"
	"fmt"
)

// ErrZeroSpeed is returned when a fleet must move but has no speed
var ErrZeroSpeed = errors.New("speed must be at least 1")

// ActualTurnsAndEnergy simulates a fleet flying from src to target at the
// given speed and returns the number of turns taken and the total distance
// actually flown. src == target costs nothing.
func ActualTurnsAndEnergy(src, target Vec3, speed uint32) (Cost, error) {
	var cost Cost
	err := simulate(src, target, speed, func(from, to Vec3) {
		cost.Turns++
		cost.Energy += Distance(from, to)
	})
	if err != nil {
		return Cost{}, err
	}
	return cost, nil
}

// simulate runs the turn loop and reports every step taken
func simulate(src, target Vec3, speed uint32, step func(from, to Vec3)) error {
	if src == target {
		return nil
	}
	if speed == 0 {
		return fmt.Errorf("simulate %s -> %s: %w", src, target, ErrZeroSpeed)
	}

	p := src
	for p != target {
		next := moveFleet(p, target, speed)
		step(p, next)
		p = next
	}
	return nil
}

// moveFleet returns where a fleet at src ends this turn while heading to target.
func moveFleet(src, target Vec3, speed uint32) Vec3 {
	distToTarget := Distance(src, target)

	// Arrive this turn if the target is within range
	if uint64(speed) >= distToTarget {
		return target
	}

	// Split the remaining per-axis gaps evenly over the turns still needed
	turnsNeeded := (distToTarget + uint64(speed) - 1) / uint64(speed)

	dx := absDiff(src.X, target.X) / turnsNeeded
	dy := absDiff(src.Y, target.Y) / turnsNeeded
	dz := absDiff(src.Z, target.Z) / turnsNeeded

	// Flooring can zero every axis at speed 1; step the widest gap by one
	// so the fleet still closes in.
	if dx == 0 && dy == 0 && dz == 0 {
		gx, gy, gz := absDiff(src.X, target.X), absDiff(src.Y, target.Y), absDiff(src.Z, target.Z)
		switch {
		case gx >= gy && gx >= gz:
			dx = 1
		case gy >= gz:
			dy = 1
		default:
			dz = 1
		}
	}

	return Vec3{
		X: approach(src.X, target.X, dx),
		Y: approach(src.Y, target.Y, dy),
		Z: approach(src.Z, target.Z, dz),
	}
}

// approach moves from toward to by delta, which never exceeds the gap
func approach(from, to uint32, delta uint64) uint32 {
	if from <= to {
		return from + uint32(delta)
	}
	return from - uint32(delta)
}
