package engine

import (
	"errors"
	"testing"
)

func TestActualTurnsAndEnergy(t *testing.T) {
	tests := []struct {
		name       string
		src        Vec3
		target     Vec3
		speed      uint32
		wantTurns  uint64
		wantEnergy uint64
	}{
		{"arrive in one turn", Vec3{8, 8, 8}, Vec3{8, 16, 24}, 30, 1, 17},
		{"exact speed arrives", Vec3{0, 0, 0}, Vec3{30, 0, 0}, 30, 1, 30},
		{"single axis", Vec3{0, 0, 0}, Vec3{100, 0, 0}, 30, 4, 100},
		{"diagonal slow", Vec3{8, 8, 8}, Vec3{120, 120, 120}, 10, 22, 180},
		{"diagonal fast", Vec3{8, 8, 8}, Vec3{120, 120, 120}, 30, 7, 189},
		{"descending axes", Vec3{120, 120, 120}, Vec3{8, 8, 8}, 16, 13, 185},
		{"uneven axes", Vec3{0, 0, 0}, Vec3{5, 3, 1}, 2, 3, 5},
		{"same point", Vec3{40, 40, 40}, Vec3{40, 40, 40}, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := ActualTurnsAndEnergy(tt.src, tt.target, tt.speed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cost.Turns != tt.wantTurns {
				t.Errorf("turns = %d, want %d", cost.Turns, tt.wantTurns)
			}
			if cost.Energy != tt.wantEnergy {
				t.Errorf("energy = %d, want %d", cost.Energy, tt.wantEnergy)
			}
		})
	}
}

func TestActualTurnsAndEnergy_Waypoints(t *testing.T) {
	var path []Vec3
	err := simulate(Vec3{0, 0, 0}, Vec3{100, 0, 0}, 30, func(from, to Vec3) {
		path = append(path, to)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Vec3{{25, 0, 0}, {50, 0, 0}, {75, 0, 0}, {100, 0, 0}}
	if len(path) != len(want) {
		t.Fatalf("expected %d steps, got %d: %v", len(want), len(path), path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("step %d: got %s, want %s", i+1, path[i], want[i])
		}
	}
}

func TestActualTurnsAndEnergy_ZeroSpeed(t *testing.T) {
	_, err := ActualTurnsAndEnergy(Vec3{0, 0, 0}, Vec3{10, 0, 0}, 0)
	if !errors.Is(err, ErrZeroSpeed) {
		t.Fatalf("expected ErrZeroSpeed, got %v", err)
	}

	// Nothing to fly, so speed does not matter
	cost, err := ActualTurnsAndEnergy(Vec3{5, 5, 5}, Vec3{5, 5, 5}, 0)
	if err != nil {
		t.Fatalf("unexpected error for zero-length trip: %v", err)
	}
	if cost != (Cost{}) {
		t.Errorf("expected zero cost, got %+v", cost)
	}
}

func TestActualTurnsAndEnergy_SpeedOneTerminates(t *testing.T) {
	targets := []Vec3{{2, 2, 2}, {1, 1, 1}, {3, 1, 2}, {0, 5, 5}}

	for _, target := range targets {
		src := Vec3{0, 0, 0}
		steps := 0
		err := simulate(src, target, 1, func(from, to Vec3) {
			steps++
			_, before := distanceSquared(from, target)
			_, after := distanceSquared(to, target)
			if after >= before {
				t.Errorf("%s -> %s: step %s did not close in", src, target, to)
			}
			if steps > 64 {
				t.Fatalf("%s -> %s: simulation did not terminate", src, target)
			}
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestActualTurnsAndEnergy_TurnsBoundedBySpeed(t *testing.T) {
	c := Default()

	for src := 0; src < c.Count(); src++ {
		for dst := 0; dst < c.Count(); dst++ {
			if src == dst {
				continue
			}
			from, to := c.Position(src), c.Position(dst)
			distance := Distance(from, to)

			var prevTurns uint64
			// Speeds is ordered fastest first
			for i, speed := range Speeds {
				cost, err := ActualTurnsAndEnergy(from, to, speed)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				minTurns := (distance + uint64(speed) - 1) / uint64(speed)
				if cost.Turns < minTurns {
					t.Errorf("%d -> %d at speed %d: %d turns, need at least %d",
						src, dst, speed, cost.Turns, minTurns)
				}
				if i > 0 && cost.Turns < prevTurns {
					t.Errorf("%d -> %d: speed %d took fewer turns than a faster speed", src, dst, speed)
				}
				prevTurns = cost.Turns
			}
		}
	}
}
