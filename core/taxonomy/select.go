// core/taxonomy/select.go
package taxonomy

import "fmt"

// FilterOptions is the post-hoc hit acceptance gate. Filtering is done
// here, not delegated to the remote search service, so the acceptance
// policy is uniform regardless of how the service was configured.
type FilterOptions struct {
	MinPercentIdentity float64
	MinQueryCoverage   float64
	MinAlignmentLength int
}

// DefaultFilterOptions returns the conventional acceptance floors.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		MinPercentIdentity: 85,
		MinQueryCoverage:   70,
		MinAlignmentLength: 100,
	}
}

// Validate rejects nonsensical acceptance floors.
func (o FilterOptions) Validate() error {
	if o.MinPercentIdentity < 0 || o.MinPercentIdentity > 100 {
		return fmt.Errorf("min percent identity must be in [0,100], got %v", o.MinPercentIdentity)
	}
	if o.MinQueryCoverage < 0 || o.MinQueryCoverage > 100 {
		return fmt.Errorf("min query coverage must be in [0,100], got %v", o.MinQueryCoverage)
	}
	if o.MinAlignmentLength < 0 {
		return fmt.Errorf("min alignment length must be >= 0, got %d", o.MinAlignmentLength)
	}
	return nil
}

// FilterHits keeps only hits passing every acceptance floor.
func FilterHits(hits []Hit, o FilterOptions) []Hit {
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.PercentIdentity >= o.MinPercentIdentity &&
			h.QueryCoverage >= o.MinQueryCoverage &&
			h.AlignmentLength >= o.MinAlignmentLength {
			out = append(out, h)
		}
	}
	return out
}

// BestHit selects the best-scoring hit: lowest e-value, ties broken by
// highest percent identity.
func BestHit(hits []Hit) (Hit, bool) {
	if len(hits) == 0 {
		return Hit{}, false
	}
	best := hits[0]
	for _, h := range hits[1:] {
		if h.EValue < best.EValue ||
			(h.EValue == best.EValue && h.PercentIdentity > best.PercentIdentity) {
			best = h
		}
	}
	return best, true
}

// Confidence maps a hit's identity and coverage to [0,1], monotonic in
// both: pident/100 * min(1, qcov/100).
func Confidence(h Hit) float64 {
	cov := h.QueryCoverage / 100
	if cov > 1 {
		cov = 1
	}
	if cov < 0 {
		cov = 0
	}
	c := h.PercentIdentity / 100 * cov
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Assign applies the acceptance gate and best-hit selection to one ASV's
// hits. When no hit survives, the ASV comes back unassigned with the
// given reason left for the caller to fill (empty Reason means "no hit
// passed filtering").
func Assign(asvID string, hits []Hit, o FilterOptions, method string) Assignment {
	kept := FilterHits(hits, o)
	best, ok := BestHit(kept)
	if !ok {
		return Assignment{ASVID: asvID, Reason: "no hit passed filtering"}
	}
	return Assignment{
		ASVID:      asvID,
		Lineage:    best.Lineage,
		Confidence: Confidence(best),
		Method:     method,
		HitID:      best.HitID,
	}
}

// Summarize counts assignments per kingdom; unassigned ASVs are counted
// under "unassigned".
func Summarize(assignments []Assignment) map[string]int {
	out := make(map[string]int)
	for _, a := range assignments {
		if !a.Assigned() {
			out["unassigned"]++
			continue
		}
		k := a.Lineage.Kingdom
		if k == "" {
			k = "unknown"
		}
		out[k]++
	}
	return out
}
