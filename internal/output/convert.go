// internal/output/convert.go
package output

import (
	"edna-core/cluster"
	"edna-core/contam"
	"edna-core/diversity"
	"edna-core/taxonomy"
	"edna/internal/pipeline"
	"edna/pkg/api"
)

// ToAPIReport converts a domain Report to the stable wire schema (v1).
func ToAPIReport(r pipeline.Report) api.ReportV1 {
	return api.ReportV1{
		SampleID: r.SampleID,
		RunID:    r.RunID,
		Stage:    string(r.Stage),
		Fatal:    r.Fatal,
		Filter: api.FilterMetricsV1{
			Input:   r.Filter.Input,
			Passed:  r.Filter.Passed,
			Failed:  r.Filter.Failed,
			Reasons: copyCounts(r.Filter.Reasons),
		},
		Clustering: api.ClusteringV1{
			ASVs:           toAPIASVs(r.Clustering.ASVs),
			TotalASVs:      r.Clustering.TotalASVs,
			TotalSequences: r.Clustering.TotalSequences,
			Singletons:     r.Clustering.Singletons,
			Dropped:        r.Clustering.Stats.Dropped,
		},
		Taxonomy: api.TaxonomyV1{
			Assignments:       toAPIAssignments(r.Taxonomy.Assignments),
			AssignedCount:     r.Taxonomy.AssignedCount,
			UnassignedCount:   r.Taxonomy.UnassignedCount,
			AverageConfidence: r.Taxonomy.AverageConfidence,
			Summary:           copyCounts(r.Taxonomy.Summary),
		},
		Diversity:     toAPIDiversity(r.Alpha, r.Rarefaction),
		Contamination: toAPIContamination(r.Contamination),
		TopSpecies:    toAPITaxonCounts(r.TopSpecies),
	}
}

// ToAPIBatch converts a multi-sample batch, including the beta matrix
// when one was computed.
func ToAPIBatch(b pipeline.Batch) api.BatchV1 {
	v := api.BatchV1{
		Reports: make([]api.ReportV1, 0, len(b.Reports)),
	}
	for _, r := range b.Reports {
		if r == nil {
			continue
		}
		v.Reports = append(v.Reports, ToAPIReport(*r))
	}
	v.Beta = ToAPIBeta(b.Beta)
	return v
}

// ToAPIBeta converts a beta-diversity matrix to its wire form.
func ToAPIBeta(m *diversity.BetaMatrix) *api.BetaMatrixV1 {
	if m == nil {
		return nil
	}
	return &api.BetaMatrixV1{
		SampleIDs:  append([]string(nil), m.SampleIDs...),
		BrayCurtis: copyMatrix(m.BrayCurtis),
		Jaccard:    copyMatrix(m.Jaccard),
	}
}

func toAPIASVs(list []cluster.ASV) []api.ASVV1 {
	out := make([]api.ASVV1, 0, len(list))
	for _, a := range list {
		out = append(out, api.ASVV1{
			ID:         a.ID,
			Sequence:   a.Sequence,
			ReadIDs:    append([]string(nil), a.ReadIDs...),
			TotalReads: a.TotalReads,
		})
	}
	return out
}

func toAPIAssignments(list []taxonomy.Assignment) []api.AssignmentV1 {
	out := make([]api.AssignmentV1, 0, len(list))
	for _, a := range list {
		out = append(out, api.AssignmentV1{
			ASVID: a.ASVID,
			Lineage: api.LineageV1{
				Kingdom: a.Lineage.Kingdom,
				Phylum:  a.Lineage.Phylum,
				Class:   a.Lineage.Class,
				Order:   a.Lineage.Order,
				Family:  a.Lineage.Family,
				Genus:   a.Lineage.Genus,
				Species: a.Lineage.Species,
			},
			Confidence: a.Confidence,
			Method:     a.Method,
			HitID:      a.HitID,
			Reason:     a.Reason,
		})
	}
	return out
}

func toAPIDiversity(alpha diversity.AlphaResult, rar []diversity.RarefactionPoint) api.DiversityV1 {
	v := api.DiversityV1{
		Shannon:      alpha.Shannon,
		Simpson:      alpha.Simpson,
		Chao1:        alpha.Chao1,
		Evenness:     alpha.Evenness,
		ObservedTaxa: alpha.ObservedTaxa,
		TotalReads:   alpha.TotalReads,
	}
	for _, p := range rar {
		v.Rarefaction = append(v.Rarefaction, api.RarefactionPointV1{
			Depth:    p.Depth,
			MeanTaxa: p.MeanTaxa,
		})
	}
	return v
}

func toAPIContamination(r contam.Report) api.ContaminationV1 {
	v := api.ContaminationV1{
		Score:   r.Score,
		IsClean: r.IsClean,
	}
	for _, f := range r.Flagged {
		v.Flagged = append(v.Flagged, api.FlaggedASVV1{
			ASVID:  f.ASVID,
			Reason: f.Reason,
		})
	}
	return v
}

func toAPITaxonCounts(list []diversity.TaxonCount) []api.TaxonCountV1 {
	out := make([]api.TaxonCountV1, 0, len(list))
	for _, t := range list {
		out = append(out, api.TaxonCountV1{Taxon: t.Taxon, Reads: t.Reads})
	}
	return out
}

func copyCounts(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
