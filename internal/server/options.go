// internal/server/options.go
package server

import (
	"edna-core/seq"
	"edna/internal/pipeline"
	"edna/pkg/api"
)

// applyOptions overlays request options onto base. Absent fields keep
// the supplied baseline so server config and stage defaults survive.
func applyOptions(base pipeline.Options, o *api.AnalyzeOptionsV1) pipeline.Options {
	if o == nil {
		return base
	}
	if q := o.Quality; q != nil {
		if q.MinLength != nil {
			base.Quality.MinLength = *q.MinLength
		}
		if q.MinAvgQuality != nil {
			base.Quality.MinAvgQuality = *q.MinAvgQuality
		}
		if q.MaxAmbiguousFraction != nil {
			base.Quality.MaxAmbiguousFraction = *q.MaxAmbiguousFraction
		}
	}
	if c := o.Clustering; c != nil {
		if c.IdentityThreshold != nil {
			base.Clustering.IdentityThreshold = *c.IdentityThreshold
		}
		if c.MinClusterSize != nil {
			base.Clustering.MinClusterSize = *c.MinClusterSize
		}
	}
	if t := o.Taxonomy; t != nil {
		if t.MinPercentIdentity != nil {
			base.Taxonomy.Filter.MinPercentIdentity = *t.MinPercentIdentity
		}
		if t.MinQueryCoverage != nil {
			base.Taxonomy.Filter.MinQueryCoverage = *t.MinQueryCoverage
		}
		if t.MinAlignmentLength != nil {
			base.Taxonomy.Filter.MinAlignmentLength = *t.MinAlignmentLength
		}
		if t.Database != nil {
			base.Taxonomy.Database = *t.Database
		}
	}
	if c := o.Contamination; c != nil {
		if c.ScoreThreshold != nil {
			base.Contamination.ScoreThreshold = *c.ScoreThreshold
		}
		if c.Environment != nil {
			base.Contamination.Environment = *c.Environment
		}
	}
	return base
}

// toInput converts one request sample to a pipeline input.
func toInput(r api.AnalyzeRequestV1) pipeline.Input {
	reads := make([]seq.Read, 0, len(r.Sequences))
	for _, s := range r.Sequences {
		reads = append(reads, seq.Read{ID: s.ID, Sequence: s.Sequence, Quality: s.Quality})
	}
	return pipeline.Input{SampleID: r.SampleID, Reads: reads}
}
