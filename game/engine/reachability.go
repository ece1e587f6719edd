package engine

import "container/heap"

// ReachablePlanets returns, indexed by location id, which locations a fleet
// at src can be ordered to with the given energy.
//
// The search walks the adjacency graph depth-first. A neighbor is admitted
// only when energy > DistanceBetween(src, dst), always measured from src and
// never from the node being expanded, so the budget acts as a fixed radius
// around the origin rather than an accumulated path cost.
func (c *Catalog) ReachablePlanets(src int, energy uint32) []bool {
	c.mustID(src)

	reachables := make([]bool, c.Count())
	reachables[src] = true

	var dfs func(id int)
	dfs = func(id int) {
		for _, dst := range c.locations[id].Neighbors {
			if reachables[dst] {
				continue
			}
			if uint64(energy) > c.DistanceBetween(src, dst) {
				reachables[dst] = true
				dfs(dst)
			}
		}
	}
	dfs(src)

	return reachables
}

// MinimumEnergies returns, for every location, the smallest energy at which
// ReachablePlanets(src, energy) admits it. The origin needs 0. Locations no
// budget can reach get UnreachableEnergy.
//
// A location is admitted at energy e when some adjacency path from src runs
// only through nodes whose distance from src is below e, so the threshold is
// one more than the smallest possible maximum distance along such a path.
func (c *Catalog) MinimumEnergies(src int) []uint64 {
	c.mustID(src)

	result := make([]uint64, c.Count())
	for i := range result {
		result[i] = UnreachableEnergy
	}
	result[src] = 0

	pq := &energyQueue{{id: src, energy: 0}}
	done := make([]bool, c.Count())
	for pq.Len() > 0 {
		item := heap.Pop(pq).(energyItem)
		if done[item.id] {
			continue
		}
		done[item.id] = true

		for _, dst := range c.locations[item.id].Neighbors {
			if done[dst] {
				continue
			}
			need := c.DistanceBetween(src, dst) + 1
			if item.energy > need {
				need = item.energy
			}
			if need < result[dst] {
				result[dst] = need
				heap.Push(pq, energyItem{id: dst, energy: need})
			}
		}
	}

	return result
}

type energyItem struct {
	id     int
	energy uint64
}

// energyQueue is a min-heap of energyItem ordered by energy
type energyQueue []energyItem

func (q energyQueue) Len() int            { return len(q) }
func (q energyQueue) Less(i, j int) bool  { return q[i].energy < q[j].energy }
func (q energyQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *energyQueue) Push(x interface{}) { *q = append(*q, x.(energyItem)) }
func (q *energyQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
