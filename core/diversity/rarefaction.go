// core/diversity/rarefaction.go
package diversity

import "math/rand"

// RarefactionPoint is the mean observed-taxa count at one subsample depth.
type RarefactionPoint struct {
	Depth    int
	MeanTaxa float64
}

// Rarefaction subsamples the community without replacement at `steps`
// evenly spaced depths up to the total read count, `iterations` times per
// depth, and records the mean number of taxa observed. The curve is
// non-decreasing in depth in expectation.
//
// The generator is owned by the call so concurrent pipelines do not
// contend on global RNG state; a fixed seed makes two runs of the same
// sample comparable.
func Rarefaction(ab Table, steps, iterations int, seed int64) []RarefactionPoint {
	total := ab.Total()
	if total == 0 || steps <= 0 || iterations <= 0 {
		return nil
	}

	// Expand the table into one taxon index per read. Taxon order is
	// fixed via Ranked() so the expansion is deterministic.
	ranked := ab.Ranked()
	pool := make([]int, 0, total)
	for ti, tc := range ranked {
		for i := 0; i < tc.Reads; i++ {
			pool = append(pool, ti)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	seen := make([]int, len(ranked)) // generation-stamped presence marks
	gen := 0

	points := make([]RarefactionPoint, 0, steps)
	for s := 1; s <= steps; s++ {
		depth := total * s / steps
		if depth < 1 {
			depth = 1
		}
		sumTaxa := 0
		for it := 0; it < iterations; it++ {
			// Partial Fisher-Yates: the first `depth` slots become the
			// subsample drawn without replacement.
			for i := 0; i < depth; i++ {
				j := i + rng.Intn(len(pool)-i)
				pool[i], pool[j] = pool[j], pool[i]
			}
			gen++
			taxa := 0
			for i := 0; i < depth; i++ {
				if seen[pool[i]] != gen {
					seen[pool[i]] = gen
					taxa++
				}
			}
			sumTaxa += taxa
		}
		points = append(points, RarefactionPoint{
			Depth:    depth,
			MeanTaxa: float64(sumTaxa) / float64(iterations),
		})
	}
	return points
}
