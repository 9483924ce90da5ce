package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"edna-core/seq"
	"edna-core/taxonomy"

	"edna/internal/matcher"
)

func okMatcher() matcher.Client {
	return matcher.Func(func(ctx context.Context, req matcher.Request) (matcher.Response, error) {
		return matcher.Response{Hits: []taxonomy.Hit{{
			QueryID:         req.Sequences[0].ID,
			HitID:           "ref|1|",
			PercentIdentity: 98,
			QueryCoverage:   95,
			AlignmentLength: 150,
			EValue:          1e-60,
			Lineage:         taxonomy.Lineage{Kingdom: "Animalia", Species: "Gadus morhua"},
		}}}, nil
	})
}

func downMatcher() matcher.Client {
	return matcher.Func(func(ctx context.Context, req matcher.Request) (matcher.Response, error) {
		return matcher.Response{}, errors.New("connection refused")
	})
}

func sampleInput() Input {
	mk := func(id, s string) seq.Read { return seq.Read{ID: id, Sequence: s} }
	abundant := strings.Repeat("ACGTACGTGG", 12)
	rare := strings.Repeat("TTGCAATCCA", 12)
	return Input{
		SampleID: "station-7",
		Reads: []seq.Read{
			mk("r1", abundant), mk("r2", abundant), mk("r3", abundant),
			mk("r4", rare),
			mk("r5", "ACGT"), // too short, filtered
		},
	}
}

func TestRunFullPipeline(t *testing.T) {
	rep, err := Run(context.Background(), okMatcher(), sampleInput(), DefaultOptions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Stage != StageDone || rep.Fatal != "" {
		t.Fatalf("expected clean completion, got stage=%s fatal=%q", rep.Stage, rep.Fatal)
	}
	if rep.Filter.Passed != 4 || rep.Filter.Failed != 1 {
		t.Fatalf("filter metrics wrong: %+v", rep.Filter)
	}
	if rep.Clustering.TotalASVs != 2 {
		t.Fatalf("expected 2 ASVs, got %d", rep.Clustering.TotalASVs)
	}
	if rep.Taxonomy.AssignedCount != 2 {
		t.Fatalf("expected both ASVs assigned, got %+v", rep.Taxonomy)
	}
	// Both ASVs fold under the same species.
	if len(rep.TopSpecies) != 1 || rep.TopSpecies[0].Taxon != "Gadus morhua" || rep.TopSpecies[0].Reads != 4 {
		t.Fatalf("top species wrong: %+v", rep.TopSpecies)
	}
	if rep.Alpha.TotalReads != 4 {
		t.Fatalf("alpha totals wrong: %+v", rep.Alpha)
	}
}

// Matcher down for every ASV: complete report, zero assigned, no error.
func TestRunMatcherDownFailOpen(t *testing.T) {
	rep, err := Run(context.Background(), downMatcher(), sampleInput(), DefaultOptions())
	if err != nil {
		t.Fatalf("matcher failure must not error the pipeline: %v", err)
	}
	if rep.Stage != StageDone {
		t.Fatalf("pipeline should complete, stopped at %s", rep.Stage)
	}
	if rep.Taxonomy.AssignedCount != 0 || rep.Taxonomy.UnassignedCount != 2 {
		t.Fatalf("expected all unassigned: %+v", rep.Taxonomy)
	}
	// Reads still accounted for under ASV fallback names.
	total := 0
	for _, ts := range rep.TopSpecies {
		if !strings.HasPrefix(ts.Taxon, "ASV:") {
			t.Fatalf("unassigned taxa should use ASV fallback: %+v", ts)
		}
		total += ts.Reads
	}
	if total != 4 {
		t.Fatalf("reads lost from abundance accounting: %d", total)
	}
}

func TestRunValidation(t *testing.T) {
	_, err := Run(context.Background(), okMatcher(), Input{SampleID: "s"}, DefaultOptions())
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("zero reads must be a validation error, got %v", err)
	}

	bad := Input{SampleID: "s", Reads: []seq.Read{{ID: "r", Sequence: strings.Repeat("Z", 100)}}}
	if _, err := Run(context.Background(), okMatcher(), bad, DefaultOptions()); !errors.Is(err, ErrValidation) {
		t.Fatalf("garbage alphabet must be a validation error, got %v", err)
	}

	if _, err := Run(context.Background(), okMatcher(), sampleInput(), Options{}); !errors.Is(err, ErrConfig) {
		t.Fatalf("zero-value options must fail validation, got %v", err)
	}
}

// Zero reads surviving the filter: "no data" is a valid outcome.
func TestRunEmptyAfterFilterIsWellFormed(t *testing.T) {
	in := Input{SampleID: "empty", Reads: []seq.Read{{ID: "r1", Sequence: "ACGT"}}}
	rep, err := Run(context.Background(), okMatcher(), in, DefaultOptions())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if rep.Stage != StageDone {
		t.Fatalf("empty report should still complete, stopped at %s", rep.Stage)
	}
	if rep.Clustering.TotalASVs != 0 || rep.Alpha.ObservedTaxa != 0 || len(rep.TopSpecies) != 0 {
		t.Fatalf("expected empty well-formed report: %+v", rep)
	}
	if !rep.Contamination.IsClean {
		t.Fatal("nothing flagged in an empty sample")
	}
}

// A panicking matcher is an unexpected error: the run aborts but keeps
// the stages already computed, flagged fatal.
func TestRunFatalKeepsPartialReport(t *testing.T) {
	bomb := matcher.Func(func(ctx context.Context, req matcher.Request) (matcher.Response, error) {
		panic("matcher client bug")
	})
	rep, err := Run(context.Background(), bomb, sampleInput(), DefaultOptions())
	if err != nil {
		t.Fatalf("fatal must be flagged in the report, not returned: %v", err)
	}
	if rep.Fatal == "" {
		t.Fatal("expected fatal marker")
	}
	if rep.Stage != StageClustering {
		t.Fatalf("expected to stop after clustering, got %s", rep.Stage)
	}
	if rep.Clustering.TotalASVs != 2 {
		t.Fatalf("completed stage output lost: %+v", rep.Clustering)
	}
}

// Determinism end to end: same input, same report.
func TestRunDeterministic(t *testing.T) {
	a, err := Run(context.Background(), okMatcher(), sampleInput(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), okMatcher(), sampleInput(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if a.Clustering.ASVs[0].ID != b.Clustering.ASVs[0].ID {
		t.Fatal("ASV IDs differ across runs")
	}
	if a.Alpha != b.Alpha {
		t.Fatalf("alpha results differ: %+v vs %+v", a.Alpha, b.Alpha)
	}
}

func TestRunBatchBetaMatrix(t *testing.T) {
	in1 := sampleInput()
	in2 := sampleInput()
	in2.SampleID = "station-9"
	in2.Reads = in2.Reads[:3] // only the abundant variant

	b, err := RunBatch(context.Background(), okMatcher(), []Input{in1, in2}, DefaultOptions())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if len(b.Reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(b.Reports))
	}
	if b.Beta == nil {
		t.Fatal("expected beta matrix for two samples")
	}
	if got := len(b.Beta.SampleIDs); got != 2 {
		t.Fatalf("beta over %d samples", got)
	}
}
