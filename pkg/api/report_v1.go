// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema for one sample's analysis report.
// Keep fields, names, and types stable. Add new fields only with
// ",omitempty".
type ReportV1 struct {
	SampleID string `json:"sample_id"`
	RunID    string `json:"run_id,omitempty"`
	Stage    string `json:"stage"`
	Fatal    string `json:"fatal,omitempty"`

	Filter        FilterMetricsV1 `json:"filter"`
	Clustering    ClusteringV1    `json:"clustering"`
	Taxonomy      TaxonomyV1      `json:"taxonomy"`
	Diversity     DiversityV1     `json:"diversity"`
	Contamination ContaminationV1 `json:"contamination"`
	TopSpecies    []TaxonCountV1  `json:"top_species"`
}

type FilterMetricsV1 struct {
	Input   int            `json:"input"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Reasons map[string]int `json:"reasons,omitempty"`
}

type ASVV1 struct {
	ID         string   `json:"id"`
	Sequence   string   `json:"representative_sequence"`
	ReadIDs    []string `json:"member_read_ids,omitempty"`
	TotalReads int      `json:"total_reads"`
}

type ClusteringV1 struct {
	ASVs           []ASVV1 `json:"asvs"`
	TotalASVs      int     `json:"total_asvs"`
	TotalSequences int     `json:"total_sequences"`
	Singletons     int     `json:"singletons"`
	Dropped        int     `json:"dropped,omitempty"`
}

type LineageV1 struct {
	Kingdom string `json:"kingdom,omitempty"`
	Phylum  string `json:"phylum,omitempty"`
	Class   string `json:"class,omitempty"`
	Order   string `json:"order,omitempty"`
	Family  string `json:"family,omitempty"`
	Genus   string `json:"genus,omitempty"`
	Species string `json:"species,omitempty"`
}

type AssignmentV1 struct {
	ASVID      string    `json:"asv_id"`
	Lineage    LineageV1 `json:"ranks"`
	Confidence float64   `json:"confidence"`
	Method     string    `json:"method,omitempty"`
	HitID      string    `json:"raw_hit,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

type TaxonomyV1 struct {
	Assignments       []AssignmentV1 `json:"assignments"`
	AssignedCount     int            `json:"assigned_count"`
	UnassignedCount   int            `json:"unassigned_count"`
	AverageConfidence float64        `json:"average_confidence"`
	Summary           map[string]int `json:"taxonomic_summary,omitempty"`
}

type RarefactionPointV1 struct {
	Depth    int     `json:"depth"`
	MeanTaxa float64 `json:"mean_taxa"`
}

type DiversityV1 struct {
	Shannon      float64              `json:"shannon"`
	Simpson      float64              `json:"simpson"`
	Chao1        float64              `json:"chao1"`
	Evenness     float64              `json:"evenness"`
	ObservedTaxa int                  `json:"observed_taxa"`
	TotalReads   int                  `json:"total"`
	Rarefaction  []RarefactionPointV1 `json:"rarefaction,omitempty"`
}

type FlaggedASVV1 struct {
	ASVID  string `json:"asv_id"`
	Reason string `json:"reason"`
}

type ContaminationV1 struct {
	Score   float64        `json:"contamination_score"`
	IsClean bool           `json:"is_clean"`
	Flagged []FlaggedASVV1 `json:"flagged_asvs,omitempty"`
}

type TaxonCountV1 struct {
	Taxon string `json:"taxon"`
	Reads int    `json:"reads"`
}

// BetaMatrixV1 is the cross-sample comparison attached to batch runs.
type BetaMatrixV1 struct {
	SampleIDs  []string    `json:"sample_ids"`
	BrayCurtis [][]float64 `json:"bray_curtis"`
	Jaccard    [][]float64 `json:"jaccard"`
}

// BatchV1 wraps a multi-sample run.
type BatchV1 struct {
	Reports []ReportV1    `json:"reports"`
	Beta    *BetaMatrixV1 `json:"beta,omitempty"`
}
