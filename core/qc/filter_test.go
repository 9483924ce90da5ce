package qc

import (
	"strings"
	"testing"

	"edna-core/seq"
)

func reads(rs ...seq.Read) []seq.Read { return rs }

// Conservation: every input read lands in exactly one partition.
func TestFilterConservation(t *testing.T) {
	in := reads(
		seq.Read{ID: "a", Sequence: strings.Repeat("ACGT", 20)},
		seq.Read{ID: "b", Sequence: "ACGT"},
		seq.Read{ID: "c", Sequence: strings.Repeat("N", 80)},
		seq.Read{ID: "d", Sequence: strings.Repeat("ACGT", 20), Quality: strings.Repeat("!", 80)},
		seq.Read{ID: "e", Sequence: ""},
	)
	res := Filter(in, DefaultOptions())
	if got := len(res.Passed) + len(res.Failed); got != len(in) {
		t.Fatalf("partition lost reads: %d passed + %d failed != %d input",
			len(res.Passed), len(res.Failed), len(in))
	}
	if res.Metrics.Input != len(in) || res.Metrics.Passed != len(res.Passed) || res.Metrics.Failed != len(res.Failed) {
		t.Fatalf("metrics disagree with partition: %+v", res.Metrics)
	}
}

func TestFilterReasons(t *testing.T) {
	in := reads(
		seq.Read{ID: "short", Sequence: "ACGT"},
		seq.Read{ID: "nn", Sequence: strings.Repeat("N", 80)},
		seq.Read{ID: "lowq", Sequence: strings.Repeat("ACGT", 20), Quality: strings.Repeat("!", 80)},
		seq.Read{ID: "ok", Sequence: strings.Repeat("ACGT", 20), Quality: strings.Repeat("I", 80)},
	)
	res := Filter(in, DefaultOptions())
	if len(res.Passed) != 1 || res.Passed[0].ID != "ok" {
		t.Fatalf("expected only 'ok' to pass, got %+v", res.Passed)
	}
	for reason, want := range map[string]int{ReasonTooShort: 1, ReasonAmbiguous: 1, ReasonLowQuality: 1} {
		if got := res.Metrics.Reasons[reason]; got != want {
			t.Errorf("reason %s count = %d, want %d", reason, got, want)
		}
	}
}

// A read failing several checks is attributed to the first check in
// length -> ambiguity -> quality order.
func TestFilterReasonPrecedence(t *testing.T) {
	// Short, all-N, and low quality at once.
	in := reads(seq.Read{ID: "r", Sequence: "NNNN", Quality: "!!!!"})
	res := Filter(in, DefaultOptions())
	if res.Metrics.Reasons[ReasonTooShort] != 1 {
		t.Fatalf("expected too_short attribution, got %+v", res.Metrics.Reasons)
	}
	if len(res.Metrics.Reasons) != 1 {
		t.Fatalf("expected a single reason, got %+v", res.Metrics.Reasons)
	}
}

// Reads lacking a quality string skip the quality check.
func TestFilterNoQualitySkipsQualityCheck(t *testing.T) {
	in := reads(seq.Read{ID: "r", Sequence: strings.Repeat("ACGT", 20)})
	res := Filter(in, DefaultOptions())
	if len(res.Passed) != 1 {
		t.Fatalf("read without quality should pass, got failed: %+v", res.Metrics.Reasons)
	}
}

func TestFilterOrderPreserved(t *testing.T) {
	in := reads(
		seq.Read{ID: "1", Sequence: strings.Repeat("A", 60)},
		seq.Read{ID: "2", Sequence: strings.Repeat("C", 60)},
		seq.Read{ID: "3", Sequence: strings.Repeat("G", 60)},
	)
	res := Filter(in, DefaultOptions())
	for i, want := range []string{"1", "2", "3"} {
		if res.Passed[i].ID != want {
			t.Fatalf("order not preserved: %+v", res.Passed)
		}
	}
}

func TestFilterEmptySequenceIsFailedNotError(t *testing.T) {
	res := Filter(reads(seq.Read{ID: "empty"}), DefaultOptions())
	if len(res.Failed) != 1 {
		t.Fatalf("empty sequence should be a failed read")
	}
}

func TestOptionsValidate(t *testing.T) {
	bad := Options{MinLength: -1}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative min length")
	}
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
