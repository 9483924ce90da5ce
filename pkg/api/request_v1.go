// pkg/api/request_v1.go
package api

// AnalyzeRequestV1 is the pipeline entry-point contract consumed by
// serving layers. Option fields are pointers so "absent" and "explicit
// default" are distinguishable; unset fields fall back to the stage
// defaults.
type AnalyzeRequestV1 struct {
	SampleID  string            `json:"sampleId"`
	Sequences []SequenceV1      `json:"sequences"`
	Options   *AnalyzeOptionsV1 `json:"options,omitempty"`
}

type SequenceV1 struct {
	ID       string `json:"id"`
	Sequence string `json:"sequence"`
	Quality  string `json:"quality,omitempty"`
}

type AnalyzeOptionsV1 struct {
	Quality       *QualityOptionsV1       `json:"quality,omitempty"`
	Clustering    *ClusteringOptionsV1    `json:"clustering,omitempty"`
	Taxonomy      *TaxonomyOptionsV1      `json:"taxonomy,omitempty"`
	Contamination *ContaminationOptionsV1 `json:"contamination,omitempty"`
}

type QualityOptionsV1 struct {
	MinLength            *int     `json:"minLength,omitempty"`
	MinAvgQuality        *float64 `json:"minAvgQuality,omitempty"`
	MaxAmbiguousFraction *float64 `json:"maxAmbiguousFraction,omitempty"`
}

type ClusteringOptionsV1 struct {
	IdentityThreshold *float64 `json:"identityThreshold,omitempty"`
	MinClusterSize    *int     `json:"minClusterSize,omitempty"`
}

type TaxonomyOptionsV1 struct {
	MinPercentIdentity *float64 `json:"minPident,omitempty"`
	MinQueryCoverage   *float64 `json:"minQcovs,omitempty"`
	MinAlignmentLength *int     `json:"minLength,omitempty"`
	Database           *string  `json:"database,omitempty"`
}

type ContaminationOptionsV1 struct {
	ScoreThreshold *float64 `json:"scoreThreshold,omitempty"`
	Environment    *string  `json:"environment,omitempty"`
}

// AnalyzeBatchRequestV1 runs several samples in one request so the
// response can include cross-sample beta diversity.
type AnalyzeBatchRequestV1 struct {
	Samples []AnalyzeRequestV1 `json:"samples"`
	Options *AnalyzeOptionsV1  `json:"options,omitempty"`
}
