// core/cluster/cluster.go
package cluster

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"edna-core/seq"
)

// Options controls ASV calling.
type Options struct {
	// IdentityThreshold is the similarity cutoff for absorbing a candidate
	// into an existing cluster (0.97 is the conventional ASV/OTU cutoff).
	IdentityThreshold float64
	// MinClusterSize drops clusters with fewer total reads.
	MinClusterSize int
	// KmerSize is the k used for the alignment-free k-mer Jaccard
	// similarity between candidate and representative sequences. The
	// metric choice matters for reproducibility: k-mer Jaccard is O(len)
	// per comparison where an edit-distance ratio is O(len²), with
	// equivalent discrimination near the identity cutoff.
	KmerSize int
}

// DefaultOptions returns the conventional clustering parameters.
func DefaultOptions() Options {
	return Options{IdentityThreshold: 0.97, MinClusterSize: 1, KmerSize: 8}
}

// Validate rejects nonsensical clustering parameters.
func (o Options) Validate() error {
	if o.IdentityThreshold <= 0 || o.IdentityThreshold > 1 {
		return fmt.Errorf("identity threshold must be in (0,1], got %v", o.IdentityThreshold)
	}
	if o.MinClusterSize < 1 {
		return fmt.Errorf("min cluster size must be >= 1, got %d", o.MinClusterSize)
	}
	if o.KmerSize < 1 {
		return fmt.Errorf("k-mer size must be >= 1, got %d", o.KmerSize)
	}
	return nil
}

// ASV is one amplicon sequence variant: a cluster of near-identical reads
// represented by its most abundant member sequence.
type ASV struct {
	ID         string   // stable for identical representative sequence across runs
	Sequence   string   // representative
	ReadIDs    []string // member read IDs, in absorption order
	TotalReads int      // always == len(ReadIDs)
}

// Stats carries secondary clustering figures for reporting.
type Stats struct {
	Dropped         int // clusters removed by MinClusterSize
	DroppedReads    int
	MaxClusterSize  int
	MeanReadsPerASV float64
}

// Result is the outcome of one clustering run.
type Result struct {
	ASVs           []ASV
	TotalASVs      int
	TotalSequences int // input reads
	Singletons     int // ASVs with exactly one read
	Stats          Stats
}

// ID returns the stable ASV identifier for a representative sequence:
// a truncated content hash, so identical representatives get identical
// IDs across runs.
func ID(representative string) string {
	sum := sha256.Sum256([]byte(representative))
	return "asv_" + hex.EncodeToString(sum[:])[:12]
}

type candidate struct {
	sequence string
	readIDs  []string
}

// Cluster dereplicates reads by exact sequence, then greedily clusters the
// distinct sequences in order of descending abundance (ties broken by
// lexicographically smallest sequence, for reproducible output). Abundant
// sequences seed clusters first because they are the most likely real
// biological variants; rarer, potentially erroneous sequences are absorbed
// into them when similarity reaches IdentityThreshold.
//
// Empty input yields zero ASVs without error. Complexity is O(n·k)
// comparisons against existing representatives; fine for hundreds of ASVs,
// a known scaling limit for thousands.
func Cluster(reads []seq.Read, o Options) Result {
	res := Result{TotalSequences: len(reads)}
	if len(reads) == 0 {
		return res
	}

	// Dereplication: exact sequence -> member read IDs.
	derep := make(map[string]*candidate, len(reads))
	for _, r := range reads {
		c, ok := derep[r.Sequence]
		if !ok {
			c = &candidate{sequence: r.Sequence}
			derep[r.Sequence] = c
		}
		c.readIDs = append(c.readIDs, r.ID)
	}
	cands := make([]*candidate, 0, len(derep))
	for _, c := range derep {
		cands = append(cands, c)
	}
	sort.Slice(cands, func(i, j int) bool {
		if len(cands[i].readIDs) != len(cands[j].readIDs) {
			return len(cands[i].readIDs) > len(cands[j].readIDs)
		}
		return cands[i].sequence < cands[j].sequence
	})

	// Greedy absorption against existing representatives. The candidate
	// joins the best-scoring representative at or above the threshold;
	// ties go to the earlier (more abundant) cluster.
	var clusters []ASV
	kmers := make([]map[string]struct{}, 0, len(cands))
	for _, c := range cands {
		ck := kmerSet(c.sequence, o.KmerSize)
		best, bestSim := -1, 0.0
		for i := range clusters {
			if sim := jaccard(ck, kmers[i]); sim >= o.IdentityThreshold && sim > bestSim {
				best, bestSim = i, sim
			}
		}
		if best >= 0 {
			clusters[best].ReadIDs = append(clusters[best].ReadIDs, c.readIDs...)
			clusters[best].TotalReads += len(c.readIDs)
			continue
		}
		clusters = append(clusters, ASV{
			ID:         ID(c.sequence),
			Sequence:   c.sequence,
			ReadIDs:    append([]string(nil), c.readIDs...),
			TotalReads: len(c.readIDs),
		})
		kmers = append(kmers, ck)
	}

	// Size floor and summary figures.
	kept := clusters[:0]
	for _, cl := range clusters {
		if cl.TotalReads < o.MinClusterSize {
			res.Stats.Dropped++
			res.Stats.DroppedReads += cl.TotalReads
			continue
		}
		if cl.TotalReads == 1 {
			res.Singletons++
		}
		if cl.TotalReads > res.Stats.MaxClusterSize {
			res.Stats.MaxClusterSize = cl.TotalReads
		}
		kept = append(kept, cl)
	}
	res.ASVs = kept
	res.TotalASVs = len(kept)
	if len(kept) > 0 {
		total := 0
		for _, cl := range kept {
			total += cl.TotalReads
		}
		res.Stats.MeanReadsPerASV = float64(total) / float64(len(kept))
	}
	return res
}
