package engine

// NearestLocation finds the catalog location closest to p and its distance.
// Ties go to the lower index.
func NearestLocation(c *Catalog, p Vec3) (int, uint64) {
	nearest := 0
	minDistance := Distance(p, c.Position(0))

	for id := 1; id < c.Count(); id++ {
		distance := Distance(p, c.Position(id))
		if distance < minDistance {
			minDistance = distance
			nearest = id
		}
	}

	return nearest, minDistance
}

// CountLocationsWithin counts locations strictly closer to p than radius
func CountLocationsWithin(c *Catalog, p Vec3, radius uint64) int {
	count := 0
	for id := 0; id < c.Count(); id++ {
		if Distance(p, c.Position(id)) < radius {
			count++
		}
	}
	return count
}
