package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"edna-core/cluster"
	"edna-core/contam"
	"edna-core/diversity"
	"edna-core/qc"
	"edna-core/taxonomy"
	"edna/internal/assign"
	"edna/internal/pipeline"
	"edna/pkg/api"
)

func sampleReport() pipeline.Report {
	return pipeline.Report{
		SampleID: "station_04",
		RunID:    "run-1",
		Stage:    pipeline.StageDone,
		Filter: qc.Metrics{
			Input: 10, Passed: 8, Failed: 2,
			Reasons: map[string]int{"too_short": 2},
		},
		Clustering: cluster.Result{
			ASVs: []cluster.ASV{
				{ID: "asv_aaaaaaaaaaaa", Sequence: "ACGT", ReadIDs: []string{"r1", "r2"}, TotalReads: 6},
				{ID: "asv_bbbbbbbbbbbb", Sequence: "TTTT", ReadIDs: []string{"r3"}, TotalReads: 2},
			},
			TotalASVs:      2,
			TotalSequences: 8,
			Singletons:     0,
		},
		Taxonomy: assign.Result{
			Assignments: []taxonomy.Assignment{
				{
					ASVID:      "asv_aaaaaaaaaaaa",
					Lineage:    taxonomy.Lineage{Kingdom: "Animalia", Species: "Gadus morhua"},
					Confidence: 0.95,
					Method:     "blast",
				},
				{ASVID: "asv_bbbbbbbbbbbb", Reason: "no hits passed filters"},
			},
			AssignedCount:     1,
			UnassignedCount:   1,
			AverageConfidence: 0.95,
			Summary:           map[string]int{"Animalia": 1, "unassigned": 1},
		},
		Alpha: diversity.AlphaResult{
			SampleID: "station_04", Shannon: 0.562, Simpson: 0.375,
			Chao1: 2, Evenness: 0.811, ObservedTaxa: 2, TotalReads: 8,
		},
		Contamination: contam.Report{
			SampleID: "station_04", Score: 0, IsClean: true,
		},
		TopSpecies: []diversity.TaxonCount{
			{Taxon: "Gadus morhua", Reads: 6},
			{Taxon: "ASV:asv_bbbbbbbbbbbb", Reads: 2},
		},
	}
}

func TestToAPIReportRoundTripsStableNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"sample_id", "stage", "filter", "clustering", "taxonomy", "diversity", "contamination", "top_species"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}

	var back api.ReportV1
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode into v1: %v", err)
	}
	if back.SampleID != "station_04" || back.Taxonomy.AssignedCount != 1 {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if back.Clustering.ASVs[0].Sequence != "ACGT" {
		t.Errorf("representative sequence lost: %+v", back.Clustering.ASVs[0])
	}
}

func TestWriteTSVOneRowPerASV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSVHeader(&buf); err != nil {
		t.Fatal(err)
	}
	if err := WriteTSV(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != TSVHeader {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Gadus morhua") || !strings.Contains(lines[1], "0.9500") {
		t.Errorf("assigned row = %q", lines[1])
	}
	// Unassigned ASV keeps empty rank columns and zero confidence.
	if !strings.Contains(lines[2], "asv_bbbbbbbbbbbb\t2\t\t\t\t\t\t\t\t0.0000") {
		t.Errorf("unassigned row = %q", lines[2])
	}
}

func TestWriteTextSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"sample station_04",
		"10 in, 8 passed, 2 failed",
		"too_short: 2",
		"1/2 assigned",
		"clean",
		"Gadus morhua (6 reads)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestToAPIBatchCarriesBeta(t *testing.T) {
	r := sampleReport()
	b := pipeline.Batch{
		Reports: []*pipeline.Report{&r},
		Beta: &diversity.BetaMatrix{
			SampleIDs:  []string{"a", "b"},
			BrayCurtis: [][]float64{{0, 0.5}, {0.5, 0}},
			Jaccard:    [][]float64{{0, 1}, {1, 0}},
		},
	}
	v := ToAPIBatch(b)
	if v.Beta == nil || v.Beta.BrayCurtis[0][1] != 0.5 {
		t.Fatalf("beta not carried: %+v", v.Beta)
	}
	if len(v.Reports) != 1 {
		t.Fatalf("reports = %d", len(v.Reports))
	}
}
