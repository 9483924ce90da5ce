package cluster

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"edna-core/seq"
)

func mkReads(seqs ...string) []seq.Read {
	out := make([]seq.Read, len(seqs))
	for i, s := range seqs {
		out[i] = seq.Read{ID: fmt.Sprintf("r%d", i+1), Sequence: s}
	}
	return out
}

func TestClusterEmptyInput(t *testing.T) {
	res := Cluster(nil, DefaultOptions())
	if res.TotalASVs != 0 || len(res.ASVs) != 0 {
		t.Fatalf("empty input should yield zero ASVs, got %+v", res)
	}
}

// N identical reads collapse to exactly one ASV with TotalReads == N.
func TestClusterIdenticalReads(t *testing.T) {
	s := strings.Repeat("ACGT", 10)
	res := Cluster(mkReads(s, s, s, s, s), DefaultOptions())
	if res.TotalASVs != 1 {
		t.Fatalf("expected 1 ASV, got %d", res.TotalASVs)
	}
	if res.ASVs[0].TotalReads != 5 {
		t.Fatalf("TotalReads = %d, want 5", res.ASVs[0].TotalReads)
	}
	if len(res.ASVs[0].ReadIDs) != res.ASVs[0].TotalReads {
		t.Fatal("TotalReads must equal member count")
	}
}

// 3 identical + 1 divergent read at threshold 0.97
// gives two ASVs, the abundant one first, the divergent one a singleton.
func TestClusterAbundantPlusDivergent(t *testing.T) {
	reads := []seq.Read{
		{ID: "a1", Sequence: "ACGTACGTAA"},
		{ID: "a2", Sequence: "ACGTACGTAA"},
		{ID: "a3", Sequence: "ACGTACGTAA"},
		{ID: "b1", Sequence: "TTTTTTTTTT"},
	}
	res := Cluster(reads, DefaultOptions())
	if res.TotalASVs != 2 {
		t.Fatalf("expected 2 ASVs, got %d", res.TotalASVs)
	}
	if res.ASVs[0].TotalReads != 3 {
		t.Fatalf("first ASV TotalReads = %d, want 3", res.ASVs[0].TotalReads)
	}
	if res.ASVs[1].TotalReads != 1 {
		t.Fatalf("second ASV TotalReads = %d, want 1", res.ASVs[1].TotalReads)
	}
	if res.Singletons != 1 {
		t.Fatalf("Singletons = %d, want 1", res.Singletons)
	}
}

// Determinism: identical input and options give identical IDs and counts.
func TestClusterDeterminism(t *testing.T) {
	reads := mkReads(
		strings.Repeat("ACGT", 15),
		strings.Repeat("ACGT", 15),
		strings.Repeat("TGCA", 15),
		strings.Repeat("GGCC", 15),
		strings.Repeat("TGCA", 15),
	)
	a := Cluster(reads, DefaultOptions())
	b := Cluster(reads, DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two runs differ:\n%+v\n%+v", a, b)
	}
}

// ID is a pure function of the representative sequence.
func TestStableIDs(t *testing.T) {
	if ID("ACGT") != ID("ACGT") {
		t.Fatal("ID not stable")
	}
	if ID("ACGT") == ID("ACGA") {
		t.Fatal("distinct sequences share an ID")
	}
	if !strings.HasPrefix(ID("ACGT"), "asv_") {
		t.Fatalf("unexpected ID shape: %s", ID("ACGT"))
	}
}

// Near-identical sequences are absorbed into the abundant seed.
func TestClusterAbsorbsNearIdentical(t *testing.T) {
	base := strings.Repeat("ACGTGGCTAC", 10) // 100 bp
	variant := base[:99] + "T"               // single terminal substitution
	reads := append(mkReads(base, base, base), seq.Read{ID: "v", Sequence: variant})
	res := Cluster(reads, Options{IdentityThreshold: 0.90, MinClusterSize: 1, KmerSize: 8})
	if res.TotalASVs != 1 {
		t.Fatalf("expected variant absorbed into seed, got %d ASVs", res.TotalASVs)
	}
	if res.ASVs[0].TotalReads != 4 {
		t.Fatalf("TotalReads = %d, want 4", res.ASVs[0].TotalReads)
	}
	if res.ASVs[0].Sequence != base {
		t.Fatal("representative must be the abundant seed")
	}
}

func TestMinClusterSizeDropsSingletons(t *testing.T) {
	reads := mkReads(
		strings.Repeat("ACGT", 15),
		strings.Repeat("ACGT", 15),
		strings.Repeat("TTTT", 15),
	)
	res := Cluster(reads, Options{IdentityThreshold: 0.97, MinClusterSize: 2, KmerSize: 8})
	if res.TotalASVs != 1 {
		t.Fatalf("expected singleton dropped, got %d ASVs", res.TotalASVs)
	}
	if res.Stats.Dropped != 1 || res.Stats.DroppedReads != 1 {
		t.Fatalf("drop stats wrong: %+v", res.Stats)
	}
}

// Tie-break on equal abundance is by lexicographically smallest sequence.
func TestSeedTieBreak(t *testing.T) {
	reads := mkReads(strings.Repeat("TG", 30), strings.Repeat("AC", 30))
	res := Cluster(reads, DefaultOptions())
	if res.TotalASVs != 2 {
		t.Fatalf("expected 2 ASVs, got %d", res.TotalASVs)
	}
	if res.ASVs[0].Sequence != strings.Repeat("AC", 30) {
		t.Fatalf("lexicographic tie-break violated: first rep %q", res.ASVs[0].Sequence)
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := (Options{IdentityThreshold: 1.5, MinClusterSize: 1, KmerSize: 8}).Validate(); err == nil {
		t.Fatal("expected threshold error")
	}
	if err := (Options{IdentityThreshold: 0.9, MinClusterSize: 0, KmerSize: 8}).Validate(); err == nil {
		t.Fatal("expected size error")
	}
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
