// internal/common/sort.go
package common

import (
	"sort"

	"edna/internal/pipeline"
)

// LessReport defines a stable order for reports (for -sort).
func LessReport(a, b *pipeline.Report) bool {
	if a.SampleID != b.SampleID {
		return a.SampleID < b.SampleID
	}
	return a.RunID < b.RunID
}

func SortReports(rs []*pipeline.Report) {
	sort.Slice(rs, func(i, j int) bool { return LessReport(rs[i], rs[j]) })
}
