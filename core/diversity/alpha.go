// core/diversity/alpha.go
package diversity

import "math"

// AlphaResult holds the per-sample alpha diversity indices.
//
// Ranges: Shannon >= 0; Simpson in [0,1]; Evenness in [0,1] (0 when a
// single taxon is observed); Chao1 >= ObservedTaxa.
type AlphaResult struct {
	SampleID     string
	Shannon      float64
	Simpson      float64
	Chao1        float64
	Evenness     float64
	ObservedTaxa int
	TotalReads   int
}

// Alpha computes Shannon (H' = -Σ p ln p), Simpson (1 - Σ p²), Pielou
// evenness (H'/ln S) and the Chao1 richness estimate for one sample.
// An empty table yields all-zero indices, never a division by zero.
func Alpha(sampleID string, ab Table) AlphaResult {
	res := AlphaResult{SampleID: sampleID}
	total := ab.Total()
	res.TotalReads = total
	if total == 0 {
		return res
	}

	var (
		shannon   float64
		sumSq     float64
		observed  int
		singleton int
		doubleton int
	)
	for _, count := range ab {
		if count <= 0 {
			continue
		}
		observed++
		switch count {
		case 1:
			singleton++
		case 2:
			doubleton++
		}
		p := float64(count) / float64(total)
		shannon -= p * math.Log(p)
		sumSq += p * p
	}
	res.ObservedTaxa = observed
	if observed == 0 {
		return res
	}

	res.Shannon = shannon
	res.Simpson = 1 - sumSq
	if observed > 1 {
		// Clamp: summation error can push H' a hair past ln(S) for
		// perfectly even communities.
		res.Evenness = math.Min(1, shannon/math.Log(float64(observed)))
	}

	// Chao1: S + f1²/(2 f2), falling back to S + f1(f1-1)/2 when there
	// are no doubletons.
	f1 := float64(singleton)
	s := float64(observed)
	if doubleton > 0 {
		res.Chao1 = s + f1*f1/(2*float64(doubleton))
	} else {
		res.Chao1 = s + f1*(f1-1)/2
	}
	return res
}
