// core/qc/filter.go
package qc

import (
	"fmt"

	"edna-core/seq"
)

// Rejection reasons, in check order. A read failing several checks is
// attributed to the first one.
const (
	ReasonTooShort   = "too_short"
	ReasonAmbiguous  = "ambiguous_bases"
	ReasonLowQuality = "low_quality"
)

// Options controls read screening.
type Options struct {
	MinLength            int     // reject shorter sequences
	MinAvgQuality        float64 // mean Phred floor; only applied when a quality string is present
	MaxAmbiguousFraction float64 // reject when N fraction exceeds this
}

// DefaultOptions returns the conventional screening thresholds.
func DefaultOptions() Options {
	return Options{
		MinLength:            50,
		MinAvgQuality:        20,
		MaxAmbiguousFraction: 0.05,
	}
}

// Validate rejects nonsensical thresholds.
func (o Options) Validate() error {
	if o.MinLength < 0 {
		return fmt.Errorf("min length must be >= 0, got %d", o.MinLength)
	}
	if o.MinAvgQuality < 0 {
		return fmt.Errorf("min average quality must be >= 0, got %v", o.MinAvgQuality)
	}
	if o.MaxAmbiguousFraction < 0 || o.MaxAmbiguousFraction > 1 {
		return fmt.Errorf("max ambiguous fraction must be in [0,1], got %v", o.MaxAmbiguousFraction)
	}
	return nil
}

// Metrics summarizes one screening run.
type Metrics struct {
	Input   int
	Passed  int
	Failed  int
	Reasons map[string]int
}

// Result is the order-preserving partition of the input reads.
type Result struct {
	Passed  []seq.Read
	Failed  []seq.Read
	Metrics Metrics
}

// Filter partitions reads into passed and failed, preserving input order.
// Reads without a quality string skip the quality check but remain subject
// to the length and ambiguity checks. Malformed individual reads (e.g. an
// empty sequence) are classified as failed, never treated as an error.
func Filter(reads []seq.Read, o Options) Result {
	res := Result{
		Passed:  make([]seq.Read, 0, len(reads)),
		Failed:  make([]seq.Read, 0),
		Metrics: Metrics{Input: len(reads), Reasons: make(map[string]int)},
	}
	for _, r := range reads {
		if reason, ok := reject(r, o); ok {
			res.Failed = append(res.Failed, r)
			res.Metrics.Reasons[reason]++
			continue
		}
		res.Passed = append(res.Passed, r)
	}
	res.Metrics.Passed = len(res.Passed)
	res.Metrics.Failed = len(res.Failed)
	return res
}

func reject(r seq.Read, o Options) (string, bool) {
	if len(r.Sequence) < o.MinLength {
		return ReasonTooShort, true
	}
	if r.AmbiguousFraction() > o.MaxAmbiguousFraction {
		return ReasonAmbiguous, true
	}
	if r.HasQuality() && seq.MeanQuality(r.Quality) < o.MinAvgQuality {
		return ReasonLowQuality, true
	}
	return "", false
}
