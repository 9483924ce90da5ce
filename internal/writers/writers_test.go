package writers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"edna-core/cluster"
	"edna-core/qc"
	"edna/internal/pipeline"
	"edna/pkg/api"
)

func report(id string) pipeline.Report {
	return pipeline.Report{
		SampleID: id,
		Stage:    pipeline.StageDone,
		Filter:   qc.Metrics{Input: 3, Passed: 3},
		Clustering: cluster.Result{
			ASVs:      []cluster.ASV{{ID: "asv_000000000000", Sequence: "ACGT", TotalReads: 3}},
			TotalASVs: 1, TotalSequences: 3, Singletons: 0,
		},
	}
}

func TestStartReportJSONLWriterOneLinePerReport(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartReportJSONLWriter(&buf, 4)
	in <- report("s1")
	in <- report("s2")
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var v api.ReportV1
		if err := json.Unmarshal([]byte(line), &v); err != nil {
			t.Fatalf("line %d not JSON: %v", i, err)
		}
	}
	var first api.ReportV1
	_ = json.Unmarshal([]byte(lines[0]), &first)
	if first.SampleID != "s1" {
		t.Errorf("order broken: first = %q", first.SampleID)
	}
}

func TestStartReportWriterTSVHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	in, done, err := StartReportWriter("tsv", &buf, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	in <- report("s1")
	in <- report("s2")
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if n := strings.Count(out, "sample_id\tasv_id"); n != 1 {
		t.Errorf("header printed %d times", n)
	}
	if !strings.Contains(out, "s1\tasv_000000000000") || !strings.Contains(out, "s2\tasv_000000000000") {
		t.Errorf("rows missing:\n%s", out)
	}
}

func TestStartReportWriterNoHeader(t *testing.T) {
	var buf bytes.Buffer
	in, done, err := StartReportWriter("tsv", &buf, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	in <- report("s1")
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "sample_id\t") {
		t.Errorf("header should be suppressed:\n%s", buf.String())
	}
}

func TestStartReportWriterUnknownFormat(t *testing.T) {
	_, _, err := StartReportWriter("yaml", &bytes.Buffer{}, 0, false)
	if err == nil {
		t.Fatal("want error for unknown format")
	}
	for _, f := range Formats() {
		if !strings.Contains(err.Error(), f) {
			t.Errorf("error should list format %q: %v", f, err)
		}
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	err := WriteReport("xml", &bytes.Buffer{}, report("s1"))
	if err == nil {
		t.Fatal("want error for unknown format")
	}
	if !strings.Contains(err.Error(), "json") {
		t.Errorf("error should list the supported formats: %v", err)
	}
}
