// core/diversity/beta.go
package diversity

import "sort"

// BetaMatrix holds pairwise dissimilarities between samples. Both
// matrices are symmetric with zero diagonals, indexed by SampleIDs.
type BetaMatrix struct {
	SampleIDs  []string
	BrayCurtis [][]float64
	Jaccard    [][]float64
}

// Beta computes Bray-Curtis (Σ|x−y| / Σ(x+y)) and presence/absence
// Jaccard dissimilarity for every sample pair. Sample order is sorted
// by ID for reproducible matrices.
func Beta(samples map[string]Table) BetaMatrix {
	ids := make([]string, 0, len(samples))
	for id := range samples {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	n := len(ids)
	bc := make([][]float64, n)
	jc := make([][]float64, n)
	for i := range bc {
		bc[i] = make([]float64, n)
		jc[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			b, jd := pairDissimilarity(samples[ids[i]], samples[ids[j]])
			bc[i][j], bc[j][i] = b, b
			jc[i][j], jc[j][i] = jd, jd
		}
	}
	return BetaMatrix{SampleIDs: ids, BrayCurtis: bc, Jaccard: jc}
}

func pairDissimilarity(x, y Table) (brayCurtis, jaccard float64) {
	union := make(map[string]struct{}, len(x)+len(y))
	for t := range x {
		union[t] = struct{}{}
	}
	for t := range y {
		union[t] = struct{}{}
	}

	var diff, sum float64
	shared := 0
	for t := range union {
		xc, yc := float64(x[t]), float64(y[t])
		if xc > 0 {
			diff += abs(xc - yc)
			sum += xc + yc
			if yc > 0 {
				shared++
			}
		} else {
			diff += yc
			sum += yc
		}
	}
	if sum > 0 {
		brayCurtis = diff / sum
	}
	if len(union) > 0 {
		jaccard = 1 - float64(shared)/float64(len(union))
	}
	return brayCurtis, jaccard
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
