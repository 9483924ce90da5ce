// core/cluster/kmer.go
package cluster

// kmerSet returns the set of k-mers of s. Sequences shorter than k
// contribute themselves as a single element so that identical short
// sequences still compare as similar.
func kmerSet(s string, k int) map[string]struct{} {
	set := make(map[string]struct{})
	if len(s) == 0 {
		return set
	}
	if len(s) < k {
		set[s] = struct{}{}
		return set
	}
	for i := 0; i+k <= len(s); i++ {
		set[s[i:i+k]] = struct{}{}
	}
	return set
}

// jaccard returns |a∩b| / |a∪b|, and 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
