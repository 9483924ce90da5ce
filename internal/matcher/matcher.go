// internal/matcher/matcher.go
package matcher

import (
	"context"

	"edna-core/taxonomy"
)

// QuerySeq is one sequence submitted for taxonomic lookup.
type QuerySeq struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
}

// RequestOptions mirror the remote service's own pre-filter knobs. The
// pipeline applies its own acceptance gate post hoc regardless, so these
// only reduce wire traffic.
type RequestOptions struct {
	MinPercentIdentity float64 `json:"min_pident"`
	MinQueryCoverage   float64 `json:"min_qcovs"`
	MinLength          int     `json:"min_length"`
}

// Request is one search call against the remote matcher.
type Request struct {
	Sequences []QuerySeq     `json:"sequences"`
	Database  string         `json:"database"`
	Options   RequestOptions `json:"options"`
}

// Response carries the hits for all queried sequences.
type Response struct {
	Hits []taxonomy.Hit
}

// Client is the single abstraction stage 3 talks to. Any implementation
// (including fakes in tests) can satisfy it; the pipeline treats every
// error identically: the affected ASVs become unassigned and the run
// continues.
type Client interface {
	Search(ctx context.Context, req Request) (Response, error)
}
